// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package util

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the keyward configuration file
type Config struct {
	KeyDir       string `yaml:"key_dir" description:"Directory holding SSH key files" default:"~/.ssh"`
	SSHKeygenBin string `yaml:"ssh_keygen_bin" description:"ssh-keygen binary" default:"ssh-keygen"`
	SSHAddBin    string `yaml:"ssh_add_bin" description:"ssh-add binary" default:"ssh-add"`
	TrashDir     string `yaml:"trash_dir" description:"Trash directory override (defaults to the XDG trash)"`
}

// DefaultConfig returns the default configuration.
// home is the user's home directory; it is required because the key
// directory default is ~/.ssh.
func DefaultConfig(home string) Config {
	return Config{
		KeyDir:       filepath.Join(home, ".ssh"),
		SSHKeygenBin: "ssh-keygen",
		SSHAddBin:    "ssh-add",
	}
}

// ResolvePath resolves a path relative to baseDir if not absolute.
// Returns path unchanged if empty or already absolute.
func ResolvePath(path, baseDir string) string {
	if path == "" || baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ConfigPath returns the config file location:
// $XDG_CONFIG_HOME/keyward/config.yaml or ~/.config/keyward/config.yaml.
func ConfigPath(home string) string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "keyward", "config.yaml")
}

// LoadConfig loads configuration from the YAML file at path.
// Returns defaults if the file doesn't exist or can't be parsed.
// Relative key_dir and trash_dir values are resolved against home.
func LoadConfig(path, home string) Config {
	defaults := DefaultConfig(home)

	data, err := os.ReadFile(path)
	if err != nil {
		// File doesn't exist or can't be read - use defaults
		return defaults
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Failed to parse config file %s: %v\n", path, err)
		return defaults
	}

	// Fill in missing fields with defaults
	if config.KeyDir == "" {
		config.KeyDir = defaults.KeyDir
	}
	if config.SSHKeygenBin == "" {
		config.SSHKeygenBin = defaults.SSHKeygenBin
	}
	if config.SSHAddBin == "" {
		config.SSHAddBin = defaults.SSHAddBin
	}

	config.KeyDir = ResolvePath(config.KeyDir, home)
	config.TrashDir = ResolvePath(config.TrashDir, home)

	return config
}
