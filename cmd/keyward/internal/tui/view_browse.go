// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package tui

// File list, content pane, and command log rendering.

import (
	"fmt"
	"strings"
)

// truncateMiddle shortens a name to maxLen characters, keeping the
// start and end visible. Key names carry their meaning at both ends
// (type prefix and qualifier suffix), so the middle goes first.
func truncateMiddle(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen || maxLen < 5 {
		return s
	}
	keep := maxLen - 3
	head := keep / 2
	tail := keep - head
	return string(runes[:head]) + "..." + string(runes[len(runes)-tail:])
}

// renderFileList renders the left pane with the key inventory
func (m Model) renderFileList() string {
	var sb strings.Builder

	entries := m.ctrl.Entries()
	sel := m.ctrl.Selection()

	if len(entries) == 0 {
		sb.WriteString(subtitleStyle.Render("No SSH files found"))
	} else {
		visible := m.fileListHeight()
		end := m.scrollOffset + visible
		if end > len(entries) {
			end = len(entries)
		}

		for i := m.scrollOffset; i < end; i++ {
			var prefix string
			if i == sel {
				prefix = "> "
			} else {
				prefix = "  "
			}
			line := prefix + truncateMiddle(entries[i].DisplayName(), fileListWidth-6)
			if i == sel {
				sb.WriteString(selectedStyle.Render(line))
			} else {
				sb.WriteString(normalStyle.Render(line))
			}
			sb.WriteString("\n")
		}

		sb.WriteString("\n")
		sb.WriteString(subtitleStyle.Render(fmt.Sprintf("%d of %d", sel+1, len(entries))))
	}

	style := paneStyle
	if m.pane == PaneFiles {
		style = paneActiveStyle
	}
	return style.Width(fileListWidth).Height(m.fileListHeight() + 2).Render(sb.String())
}

// renderContentPane renders the selected entry's content
func (m Model) renderContentPane() string {
	style := paneStyle
	if m.pane == PaneContent {
		style = paneActiveStyle
	}
	if !m.viewportReady {
		return style.Render(m.ctrl.SelectedContent())
	}
	return style.Render(m.contentViewport.View())
}

// renderLogPanel renders the last few command log lines
func (m Model) renderLogPanel() string {
	var sb strings.Builder

	log := m.ctrl.Log()
	start := len(log) - logPanelHeight
	if start < 0 {
		start = 0
	}
	for _, line := range log[start:] {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if len(log) == 0 {
		sb.WriteString(subtitleStyle.Render("No commands run yet"))
	}

	style := paneStyle
	if m.pane == PaneLog {
		style = paneActiveStyle
	}
	width := m.width - 2
	if width < fileListWidth {
		width = fileListWidth
	}
	return style.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}
