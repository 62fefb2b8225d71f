// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyward/keyward/internal/agent"
	"github.com/keyward/keyward/internal/controller"
)

// Pane identifies the focused pane on the main screen
type Pane int

const (
	PaneFiles Pane = iota
	PaneContent
	PaneLog
)

// Model is the main TUI application model. All domain state lives in
// the controller; the model holds presentation state only.
type Model struct {
	ctrl     *controller.Controller
	resolver *agent.StatusResolver

	// Focused pane
	pane Pane

	// Agent status of the selected entry, refreshed on selection change
	// and after any agent mutation
	status agent.StatusResult

	// Content pane viewport
	contentViewport viewport.Model
	viewportReady   bool

	// File list scroll offset
	scrollOffset int

	// Screen dimensions
	width  int
	height int

	// Quit flag
	quitting bool
}

// NewModel creates a new TUI model
func NewModel(ctrl *controller.Controller, resolver *agent.StatusResolver) Model {
	m := Model{
		ctrl:     ctrl,
		resolver: resolver,
	}
	m.refreshStatus()
	return m
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Tea messages for async events

// KeysChangedMsg is sent when the directory watcher observes a change
// in the key directory
type KeysChangedMsg struct{}

// refreshStatus re-resolves the agent status of the selected entry
func (m *Model) refreshStatus() {
	e, ok := m.ctrl.SelectedEntry()
	if !ok {
		m.status = agent.StatusResult{Status: agent.StatusNotAKey}
		return
	}
	m.status = m.resolver.Status(e)
}

// refreshContent reloads the content viewport from the selected entry
func (m *Model) refreshContent() {
	if !m.viewportReady {
		return
	}
	m.contentViewport.SetContent(m.ctrl.SelectedContent())
	m.contentViewport.GotoTop()
}

// refreshSelection updates everything derived from the selection
func (m *Model) refreshSelection() {
	m.refreshStatus()
	m.refreshContent()
	m.clampScroll()
}

// clampScroll keeps the selected row inside the visible file list
func (m *Model) clampScroll() {
	sel := m.ctrl.Selection()
	if sel < m.scrollOffset {
		m.scrollOffset = sel
	}
	visible := m.fileListHeight()
	if sel >= m.scrollOffset+visible {
		m.scrollOffset = sel - visible + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// fileListHeight returns the number of visible file list rows
func (m Model) fileListHeight() int {
	// Header, status panel, log panel and footer take the rest
	h := m.height - logPanelHeight - 7
	if h < 3 {
		h = 3
	}
	return h
}
