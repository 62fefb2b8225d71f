// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package tui

// Core update loop and message handling.
// Mode-specific handlers are in update_*.go files.

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyward/keyward/internal/controller"
)

// Update handles all TUI events and messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.refreshContent()
		m.clampScroll()
		return m, nil

	case KeysChangedMsg:
		// Directory watcher observed a change - rebuild the inventory
		m.ctrl.Rescan()
		m.refreshSelection()
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input based on the controller mode
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit handling
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.ctrl.Mode() {
	case controller.ModeBrowsing:
		return m.handleBrowsingKeys(msg)
	case controller.ModeShowingBindings:
		return m.handleBindingsKeys(msg)
	case controller.ModeConfirmingDelete:
		return m.handleDeleteConfirmKeys(msg)
	case controller.ModeCreatingKey:
		return m.handleCreateFormKeys(msg)
	}

	return m, nil
}

// resizeViewport sizes the content viewport to the current screen
func (m *Model) resizeViewport() {
	w := m.width - fileListWidth - 6
	if w < 20 {
		w = 20
	}
	h := m.fileListHeight()
	if !m.viewportReady {
		m.contentViewport = viewport.New(w, h)
		m.viewportReady = true
		return
	}
	m.contentViewport.Width = w
	m.contentViewport.Height = h
}
