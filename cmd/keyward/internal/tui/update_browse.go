// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyward/keyward/internal/controller"
)

// handleBrowsingKeys handles keyboard input on the main screen
func (m Model) handleBrowsingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.pane = (m.pane + 1) % 3
		return m, nil

	case "up", "k":
		if m.pane == PaneContent {
			m.contentViewport.ScrollUp(1)
			return m, nil
		}
		m.ctrl.SelectPrevious()
		m.refreshSelection()
		return m, nil

	case "down", "j":
		if m.pane == PaneContent {
			m.contentViewport.ScrollDown(1)
			return m, nil
		}
		m.ctrl.SelectNext()
		m.refreshSelection()
		return m, nil

	case "pgup":
		if m.pane == PaneContent {
			m.contentViewport.PageUp()
		}
		return m, nil

	case "pgdown":
		if m.pane == PaneContent {
			m.contentViewport.PageDown()
		}
		return m, nil

	case "a":
		m.ctrl.AddToAgent()
		m.refreshStatus()
		return m, nil

	case "r":
		m.ctrl.RemoveFromAgent()
		m.refreshStatus()
		return m, nil

	case "c":
		m.ctrl.CopyPublicKey()
		return m, nil

	case "n":
		m.ctrl.BeginCreate()
		return m, nil

	case "d", "delete":
		m.ctrl.BeginDelete()
		return m, nil

	case "s":
		m.ctrl.Rescan()
		m.refreshSelection()
		return m, nil

	case "?":
		m.ctrl.ToggleBindings()
		return m, nil
	}

	return m, nil
}

// handleBindingsKeys dismisses the key bindings popup
func (m Model) handleBindingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "enter", "q":
		m.ctrl.ToggleBindings()
	}
	return m, nil
}

// handleDeleteConfirmKeys handles the delete confirmation dialog
func (m Model) handleDeleteConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.ctrl.CancelDelete()
		return m, nil

	case "enter", "y":
		m.ctrl.ConfirmDelete()
		m.refreshSelection()
		return m, nil
	}
	return m, nil
}

// handleMouse selects file list rows on left click
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.ctrl.Mode() != controller.ModeBrowsing || msg.X >= fileListWidth {
		return m, nil
	}

	// Rows start below the title and list header
	row := msg.Y - fileListTop
	if row < 0 {
		return m, nil
	}
	idx := m.scrollOffset + row
	if idx >= len(m.ctrl.Entries()) {
		return m, nil
	}
	m.pane = PaneFiles
	m.ctrl.Select(idx)
	m.refreshSelection()
	return m, nil
}
