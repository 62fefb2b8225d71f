// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

// Keyward is an interactive terminal inventory for SSH keys. It lists
// the key pairs in a directory, shows their ssh-agent status, and
// drives ssh-keygen and ssh-add for creation and agent management.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/term"

	"github.com/keyward/keyward/cmd/keyward/internal/tui"
	"github.com/keyward/keyward/internal/agent"
	"github.com/keyward/keyward/internal/clipboard"
	"github.com/keyward/keyward/internal/controller"
	"github.com/keyward/keyward/internal/inventory"
	"github.com/keyward/keyward/internal/keygen"
	"github.com/keyward/keyward/internal/trash"
	"github.com/keyward/keyward/internal/util"
	"github.com/keyward/keyward/internal/version"
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" {
			fmt.Printf("keyward %s\n", version.String())
			os.Exit(0)
		}
	}

	keyDir := flag.String("d", "", "SSH key directory (default ~/.ssh)")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: keyward is interactive and requires a terminal")
		os.Exit(1)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine home directory: %v\n", err)
		os.Exit(1)
	}

	util.InitLogger()

	path := *configPath
	if path == "" {
		path = util.ConfigPath(home)
	}
	config := util.LoadConfig(path, home)
	if *keyDir != "" {
		config.KeyDir = util.ResolvePath(*keyDir, home)
	}

	sink, err := trash.NewSink(config.TrashDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := inventory.NewStore(config.KeyDir)
	client := agent.NewClient(config.SSHKeygenBin, config.SSHAddBin)
	ctrl := controller.New(store, client,
		keygen.NewGenerator(config.SSHKeygenBin), sink, clipboard.New())
	ctrl.Rescan()

	model := tui.NewModel(ctrl, agent.NewStatusResolver(store, client))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	stopWatcher, err := startDirWatcher(config.KeyDir, p)
	if err != nil {
		util.Debug("directory watcher unavailable", "error", err)
	} else {
		defer stopWatcher()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// startDirWatcher watches the key directory and notifies the TUI when
// its contents change. Events are debounced so that paired file
// operations (ssh-keygen writes both halves) trigger a single rescan.
func startDirWatcher(dir string, p *tea.Program) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch key directory: %w", err)
	}

	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer
		const debounceDelay = 500 * time.Millisecond

		for {
			select {
			case <-done:
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					if debounceTimer != nil {
						debounceTimer.Stop()
					}
					debounceTimer = time.AfterFunc(debounceDelay, func() {
						p.Send(tui.KeysChangedMsg{})
					})
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				util.Debug("file watcher error", "error", err)
			}
		}
	}()

	stop := func() {
		close(done)
		_ = watcher.Close()
	}
	return stop, nil
}
