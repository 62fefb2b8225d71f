// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package tui

// Popup rendering: key bindings, delete confirmation, create form.

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/keyward/keyward/internal/controller"
	"github.com/keyward/keyward/internal/keygen"
)

// renderBindingsPopup renders the key bindings help popup
func (m Model) renderBindingsPopup() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Key Bindings"))
	sb.WriteString("\n\n")

	bindings := []struct{ key, action string }{
		{"↑/k, ↓/j", "Navigate the file list"},
		{"Tab", "Switch pane"},
		{"a", "Add SSH key to agent"},
		{"r", "Remove SSH key from agent"},
		{"c", "Copy public key to clipboard"},
		{"n", "Create a new SSH key"},
		{"d/Del", "Move SSH key to trash"},
		{"s", "Rescan key directory"},
		{"?", "Toggle this popup"},
		{"q/Esc", "Quit"},
	}
	for _, b := range bindings {
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", b.key, b.action))
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("?/Esc: Close"))

	return popupStyle.Render(sb.String())
}

// renderDeleteConfirm renders the delete confirmation dialog
func (m Model) renderDeleteConfirm() string {
	var sb strings.Builder

	sb.WriteString(errorStyle.Render("MOVE TO TRASH"))
	sb.WriteString("\n\n")

	name := ""
	if e, ok := m.ctrl.SelectedEntry(); ok {
		name = e.DisplayName()
	}
	sb.WriteString(fmt.Sprintf("Move %s to the trash?\n\n", name))
	sb.WriteString(subtitleStyle.Render("The files can be restored from the trash directory."))
	sb.WriteString("\n\n")

	sb.WriteString(helpStyle.Render("y/Enter: Move to trash | n/Esc: Cancel"))

	return popupStyle.Render(sb.String())
}

// renderCreateForm renders the new-key form
func (m Model) renderCreateForm() string {
	var sb strings.Builder
	f := m.ctrl.Form()

	sb.WriteString(titleStyle.Render("Create SSH Key"))
	sb.WriteString("\n\n")

	sb.WriteString(renderTextField("Name", f.Name, "(blank for a generated name)", f.Field == controller.FieldName))
	sb.WriteString("\n")
	sb.WriteString(renderChoiceField("Type", keygen.KeyTypes, f.TypeIndex, f.Field == controller.FieldType))
	sb.WriteString("\n")
	sb.WriteString(renderChoiceField("Bits", keygen.BitsOptions, f.BitsIndex, f.Field == controller.FieldBits))
	sb.WriteString("\n")
	sb.WriteString(renderTextField("Passphrase", mask(f.Passphrase), "(empty for no passphrase)", f.Field == controller.FieldPassphrase))
	sb.WriteString("\n")
	sb.WriteString(renderTextField("Confirm passphrase", mask(f.ConfirmPassphrase), "", f.Field == controller.FieldConfirmPassphrase))
	sb.WriteString("\n")
	sb.WriteString(renderTextField("Comment", f.Comment, "(optional)", f.Field == controller.FieldComment))
	sb.WriteString("\n")

	if f.Error != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(f.Error))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Tab/↑/↓: Field | ←/→: Option | Enter: Create | Esc: Cancel"))

	return popupStyle.Render(sb.String())
}

// renderTextField renders a labeled single-line text input
func renderTextField(label, value, placeholder string, active bool) string {
	display := value
	if active {
		display += "_"
	} else if display == "" && placeholder != "" {
		display = subtitleStyle.Render(placeholder)
	}

	style := inputInactiveStyle
	if active {
		style = inputActiveStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		fmt.Sprintf("%-20s", label), style.Width(40).Render(display))
}

// renderChoiceField renders a cycling option selector
func renderChoiceField(label string, options []string, index int, active bool) string {
	display := options[index]
	if active {
		display = "< " + display + " >"
	}

	style := inputInactiveStyle
	if active {
		style = inputActiveStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		fmt.Sprintf("%-20s", label), style.Width(40).Render(display))
}

// mask replaces each passphrase character with an asterisk
func mask(s string) string {
	return strings.Repeat("*", len([]rune(s)))
}
