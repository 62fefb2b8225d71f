// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package controller

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/keyward/keyward/internal/agent"
	"github.com/keyward/keyward/internal/inventory"
	"github.com/keyward/keyward/internal/keygen"
)

// SubmitCreate validates the form and generates a key pair. Passphrase
// mismatch is caught before the generator runs and keeps the form open.
// A generation failure also keeps the form open so the user can correct
// the input; the key directory is rescanned only on success.
func (c *Controller) SubmitCreate() error {
	if c.mode != ModeCreatingKey {
		return nil
	}

	if c.form.Passphrase != c.form.ConfirmPassphrase {
		c.form.Error = ErrPassphraseMismatch.Error()
		c.appendLog("Cannot create SSH key: " + ErrPassphraseMismatch.Error())
		return ErrPassphraseMismatch
	}

	keyType := keygen.KeyTypes[c.form.TypeIndex]
	name := strings.TrimSpace(c.form.Name)
	if name == "" {
		name = keygen.DefaultKeyName(keyType, c.now())
	}

	p := keygen.Params{
		Name:       name,
		Type:       keyType,
		Bits:       keygen.BitsOptions[c.form.BitsIndex],
		Passphrase: c.form.Passphrase,
		Comment:    c.form.Comment,
	}
	path := filepath.Join(c.store.Dir(), name)

	c.appendLog(c.gen.CommandLine(path, p))
	if err := c.gen.Generate(path, p); err != nil {
		c.form.Error = err.Error()
		c.appendLog("Failed to create SSH key: " + err.Error())
		return err
	}

	c.appendLog("SSH key created: " + path)
	c.mode = ModeBrowsing
	c.form = FormState{}
	// Immediate in-memory update so the new pair stays visible even if
	// the directory scan fails; the scan reconciles with disk.
	c.store.Insert(inventory.Entry{BaseName: name, HasPrivate: true, HasPublic: true})
	c.Rescan()
	c.selection = 0
	return nil
}

// ConfirmDelete moves the selected entry's files to the trash. The two
// halves are trashed independently; a pair with one vanished half still
// has the surviving half removed. The entry leaves the inventory as
// soon as at least one file was trashed.
func (c *Controller) ConfirmDelete() {
	if c.mode != ModeConfirmingDelete {
		return
	}
	c.mode = ModeBrowsing

	e, ok := c.SelectedEntry()
	if !ok || e.Placeholder {
		return
	}

	var trashed, failed []string
	if e.HasPrivate {
		path := c.store.PrivatePath(e)
		if err := c.trash.Delete(path); err != nil {
			failed = append(failed, err.Error())
		} else {
			trashed = append(trashed, path)
		}
	}
	if e.HasPublic {
		path := c.store.PublicPath(e)
		if err := c.trash.Delete(path); err != nil {
			failed = append(failed, err.Error())
		} else {
			trashed = append(trashed, path)
		}
	}

	if len(trashed) == 0 {
		// Standalone and ambiguous entries have no halves; fall back
		// to the entry's own literal filename.
		path := c.store.Path(e)
		if err := c.trash.Delete(path); err != nil {
			failed = append(failed, err.Error())
			c.appendLog("Failed to move to trash: " + path + " -> " + strings.Join(failed, "; "))
			return
		}
		trashed = append(trashed, path)
	}

	c.appendLog("Move to trash: " + trashed[0] + " -> SSH key moved to trash")
	for _, msg := range failed {
		c.appendLog("Failed to move to trash: " + msg)
	}

	c.store.Remove(c.selection)
	c.clampSelectionAfterRemove()
}

// AddToAgent loads the selected key pair into the agent. The load is
// idempotent: a key whose fingerprint already appears in the agent
// listing is reported as already added and ssh-add is not run.
func (c *Controller) AddToAgent() {
	if c.mode != ModeBrowsing {
		return
	}
	e, ok := c.SelectedEntry()
	if !ok {
		return
	}
	if !e.IsPair() {
		c.appendLog("Cannot add: " + e.DisplayName() + " is not a private key file of an SSH pair")
		return
	}

	privPath := c.store.PrivatePath(e)
	fingerprint, err := c.agent.Fingerprint(c.store.PublicPath(e))
	if err != nil {
		c.appendLog("Failed to add SSH key to agent: " + err.Error())
		return
	}

	// An unreachable agent listing reads as nothing loaded; the
	// subsequent ssh-add will surface the real failure if any.
	lines, err := c.agent.LoadedFingerprints()
	if err == nil && agent.ContainsFingerprint(lines, fingerprint) {
		c.appendLog("ssh-add " + privPath + " -> SSH key is already added to agent")
		return
	}

	if err := c.agent.Load(privPath); err != nil {
		c.appendLog("ssh-add " + privPath + " -> Failed to add SSH key to agent: " + err.Error())
		return
	}
	c.appendLog("ssh-add " + privPath + " -> SSH key added to agent")
}

// RemoveFromAgent unloads the selected key pair from the agent. Like
// AddToAgent it is idempotent; removing a key that is not loaded is a
// logged no-op.
func (c *Controller) RemoveFromAgent() {
	if c.mode != ModeBrowsing {
		return
	}
	e, ok := c.SelectedEntry()
	if !ok {
		return
	}
	if !e.IsPair() {
		c.appendLog("Cannot remove: " + e.DisplayName() + " is not a private key file of an SSH pair")
		return
	}

	privPath := c.store.PrivatePath(e)
	fingerprint, err := c.agent.Fingerprint(c.store.PublicPath(e))
	if err != nil {
		c.appendLog("Failed to remove SSH key from agent: " + err.Error())
		return
	}

	lines, err := c.agent.LoadedFingerprints()
	if err != nil || !agent.ContainsFingerprint(lines, fingerprint) {
		c.appendLog("ssh-add -d " + privPath + " -> SSH key is not added to agent")
		return
	}

	if err := c.agent.Unload(privPath); err != nil {
		c.appendLog("ssh-add -d " + privPath + " -> Failed to remove SSH key from agent: " + err.Error())
		return
	}
	c.appendLog("ssh-add -d " + privPath + " -> SSH key removed from agent")
}

// CopyPublicKey places the selected entry's public key content on the
// clipboard. Only complete pairs are copyable.
func (c *Controller) CopyPublicKey() {
	if c.mode != ModeBrowsing {
		return
	}
	e, ok := c.SelectedEntry()
	if !ok {
		return
	}
	if !e.IsPair() {
		c.appendLog("Cannot copy: " + e.DisplayName() + " is not a public key file of an SSH pair")
		return
	}

	pubPath := c.store.PublicPath(e)
	content, err := os.ReadFile(pubPath)
	if err != nil {
		c.appendLog("Failed to copy SSH public key: " + err.Error())
		return
	}

	if err := c.clip.Copy(strings.TrimRight(string(content), "\n")); err != nil {
		c.appendLog("Failed to copy SSH public key: " + err.Error())
		return
	}
	c.appendLog("Copy to clipboard: " + pubPath + " -> SSH public key copied to clipboard")
}
