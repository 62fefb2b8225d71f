// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package tui

// Core view rendering and styles.
// View-specific renderers are in view_*.go files.

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/keyward/keyward/internal/agent"
	"github.com/keyward/keyward/internal/controller"
)

// Layout constants
const (
	// fileListWidth is the fixed width of the left file pane
	fileListWidth = 44

	// fileListTop is the screen row of the first file list entry
	// (title line plus the pane's top border), used to translate
	// mouse clicks into list indices
	fileListTop = 2

	// logPanelHeight is the number of command log lines shown
	logPanelHeight = 6
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)

	paneActiveStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	normalStyle = lipgloss.NewStyle()

	statusLoadedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	statusNotLoadedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inputActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("42")).
				Padding(0, 1)

	inputInactiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("241")).
				Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder())

	buttonActiveStyle = buttonStyle.
				BorderForeground(lipgloss.Color("42")).
				Foreground(lipgloss.Color("42"))

	buttonInactiveStyle = buttonStyle.
				BorderForeground(lipgloss.Color("241")).
				Foreground(lipgloss.Color("241"))

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 2).
			Width(70)
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	switch m.ctrl.Mode() {
	case controller.ModeShowingBindings:
		return m.renderBindingsPopup()
	case controller.ModeConfirmingDelete:
		return m.renderDeleteConfirm()
	case controller.ModeCreatingKey:
		return m.renderCreateForm()
	}

	return m.renderMainView()
}

// renderMainView renders the browsing screen: file list and content
// side by side, agent status and command log below, footer last.
func (m Model) renderMainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Keyward"))
	sb.WriteString("\n")

	files := m.renderFileList()
	content := m.renderContentPane()
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, files, content))
	sb.WriteString("\n")

	sb.WriteString(m.renderStatusPanel())
	sb.WriteString("\n")
	sb.WriteString(m.renderLogPanel())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())

	return sb.String()
}

// renderStatusPanel renders the agent status of the selected entry
func (m Model) renderStatusPanel() string {
	var line string
	switch m.status.Status {
	case agent.StatusLoaded:
		line = statusLoadedStyle.Render("Agent: SSH key is added to agent")
	case agent.StatusNotLoaded:
		line = statusNotLoadedStyle.Render("Agent: SSH key is not added to agent")
	case agent.StatusNotAKey:
		line = subtitleStyle.Render("Agent: not an SSH key pair")
	case agent.StatusError:
		line = errorStyle.Render("Agent: " + m.status.Message)
	}
	return line
}

// renderFooter renders the one-line key hint bar
func (m Model) renderFooter() string {
	return helpStyle.Render("↑/↓: Navigate | a: Add | r: Remove | c: Copy | n: New | d: Delete | ?: Bindings | q: Quit")
}
