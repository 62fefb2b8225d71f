// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigMissingFile verifies defaults are used when no config exists
func TestLoadConfigMissingFile(t *testing.T) {
	home := t.TempDir()

	config := LoadConfig(filepath.Join(home, "nope.yaml"), home)

	if config.KeyDir != filepath.Join(home, ".ssh") {
		t.Errorf("KeyDir = %q, want %q", config.KeyDir, filepath.Join(home, ".ssh"))
	}
	if config.SSHKeygenBin != "ssh-keygen" {
		t.Errorf("SSHKeygenBin = %q, want %q", config.SSHKeygenBin, "ssh-keygen")
	}
	if config.SSHAddBin != "ssh-add" {
		t.Errorf("SSHAddBin = %q, want %q", config.SSHAddBin, "ssh-add")
	}
}

// TestLoadConfigPartialFile verifies missing fields fall back to defaults
func TestLoadConfigPartialFile(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.yaml")
	if err := os.WriteFile(path, []byte("key_dir: keys\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config := LoadConfig(path, home)

	// Relative key_dir resolves against home
	if config.KeyDir != filepath.Join(home, "keys") {
		t.Errorf("KeyDir = %q, want %q", config.KeyDir, filepath.Join(home, "keys"))
	}
	if config.SSHKeygenBin != "ssh-keygen" {
		t.Errorf("SSHKeygenBin = %q, want default", config.SSHKeygenBin)
	}
}

// TestLoadConfigFullFile verifies all fields parse
func TestLoadConfigFullFile(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.yaml")
	content := "key_dir: /srv/ssh\nssh_keygen_bin: /opt/bin/ssh-keygen\nssh_add_bin: /opt/bin/ssh-add\ntrash_dir: /srv/trash\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config := LoadConfig(path, home)

	if config.KeyDir != "/srv/ssh" {
		t.Errorf("KeyDir = %q, want /srv/ssh", config.KeyDir)
	}
	if config.SSHKeygenBin != "/opt/bin/ssh-keygen" {
		t.Errorf("SSHKeygenBin = %q", config.SSHKeygenBin)
	}
	if config.TrashDir != "/srv/trash" {
		t.Errorf("TrashDir = %q", config.TrashDir)
	}
}

// TestLoadConfigInvalidYAML verifies parse failures fall back to defaults
func TestLoadConfigInvalidYAML(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.yaml")
	if err := os.WriteFile(path, []byte("key_dir: [unclosed\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config := LoadConfig(path, home)

	if config.KeyDir != filepath.Join(home, ".ssh") {
		t.Errorf("KeyDir = %q, want default after parse failure", config.KeyDir)
	}
}

// TestResolvePath verifies relative path resolution
func TestResolvePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		baseDir string
		want    string
	}{
		{"empty", "", "/home/u", ""},
		{"absolute", "/etc/ssh", "/home/u", "/etc/ssh"},
		{"relative", ".ssh", "/home/u", "/home/u/.ssh"},
		{"no base", ".ssh", "", ".ssh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePath(tt.path, tt.baseDir); got != tt.want {
				t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.want)
			}
		})
	}
}
