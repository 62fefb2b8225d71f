// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package util

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// InitLogger initializes the global logger.
// The TUI owns stdout, so log output goes to a file under the state
// directory ($XDG_STATE_HOME/keyward or ~/.local/state/keyward).
// Set KEYWARD_DEBUG=1 to enable debug logging.
func InitLogger() {
	level := slog.LevelInfo

	if os.Getenv("KEYWARD_DEBUG") != "" {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	if path := logFilePath(); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640); err == nil {
				w = f
			}
		}
	}

	Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// logFilePath returns the log file location, or "" if no home is available.
func logFilePath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "keyward", "keyward.log")
}

// Debug logs a debug message (only recorded when KEYWARD_DEBUG is set)
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
