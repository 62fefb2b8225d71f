// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyward/keyward/internal/controller"
	"github.com/keyward/keyward/internal/keygen"
)

// handleCreateFormKeys handles keyboard input on the create-key form.
// Text fields take character input; the type and bits fields cycle
// through their options with left/right.
func (m Model) handleCreateFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.ctrl.Form()

	switch msg.String() {
	case "esc":
		m.ctrl.CancelCreate()
		return m, nil

	case "enter":
		if err := m.ctrl.SubmitCreate(); err == nil {
			m.refreshSelection()
		}
		return m, nil

	case "tab", "down":
		f.Field = (f.Field + 1) % controller.FieldCount
		m.ctrl.UpdateForm(f)
		return m, nil

	case "shift+tab", "up":
		f.Field = (f.Field + controller.FieldCount - 1) % controller.FieldCount
		m.ctrl.UpdateForm(f)
		return m, nil

	case "left":
		switch f.Field {
		case controller.FieldType:
			f.TypeIndex = (f.TypeIndex + len(keygen.KeyTypes) - 1) % len(keygen.KeyTypes)
		case controller.FieldBits:
			f.BitsIndex = (f.BitsIndex + len(keygen.BitsOptions) - 1) % len(keygen.BitsOptions)
		}
		m.ctrl.UpdateForm(f)
		return m, nil

	case "right":
		switch f.Field {
		case controller.FieldType:
			f.TypeIndex = (f.TypeIndex + 1) % len(keygen.KeyTypes)
		case controller.FieldBits:
			f.BitsIndex = (f.BitsIndex + 1) % len(keygen.BitsOptions)
		}
		m.ctrl.UpdateForm(f)
		return m, nil

	case "backspace":
		switch f.Field {
		case controller.FieldName:
			f.Name = trimLastChar(f.Name)
		case controller.FieldPassphrase:
			f.Passphrase = trimLastChar(f.Passphrase)
		case controller.FieldConfirmPassphrase:
			f.ConfirmPassphrase = trimLastChar(f.ConfirmPassphrase)
		case controller.FieldComment:
			f.Comment = trimLastChar(f.Comment)
		}
		m.ctrl.UpdateForm(f)
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		switch f.Field {
		case controller.FieldName:
			f.Name += text
		case controller.FieldPassphrase:
			f.Passphrase += text
		case controller.FieldConfirmPassphrase:
			f.ConfirmPassphrase += text
		case controller.FieldComment:
			f.Comment += text
		}
		m.ctrl.UpdateForm(f)
	}

	return m, nil
}

// trimLastChar removes the final rune from s
func trimLastChar(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}
