// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

// Package clipboard hands UTF-8 text to the system clipboard. The
// primary path uses the platform clipboard; when that is unavailable
// (typically an SSH session without a display) it falls back to an
// OSC 52 escape sequence written to the controlling terminal, which
// most modern terminal emulators translate into a local clipboard set.
package clipboard

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Copier writes text to the clipboard
type Copier struct {
	writeAll func(string) error
	ttyPath  string
}

// New creates a clipboard copier
func New() *Copier {
	return &Copier{
		writeAll: clipboard.WriteAll,
		ttyPath:  "/dev/tty",
	}
}

// Copy places text on the clipboard, trying the system clipboard first
// and OSC 52 second. Returns an error only when both paths fail.
func (c *Copier) Copy(text string) error {
	primaryErr := c.writeAll(text)
	if primaryErr == nil {
		return nil
	}

	tty, err := os.OpenFile(c.ttyPath, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("clipboard unavailable: %v", primaryErr)
	}
	defer func() { _ = tty.Close() }()

	if _, err := osc52.New(text).WriteTo(tty); err != nil {
		return fmt.Errorf("clipboard unavailable: %v", primaryErr)
	}
	return nil
}
