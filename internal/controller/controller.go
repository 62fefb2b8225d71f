// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

// Package controller orchestrates user-triggered mutations against the
// key inventory, the agent, and the key-generation service.
//
// A single Controller instance exclusively owns the inventory store,
// the selection, and the command log; renderers receive snapshot copies
// and deliver intents, never direct mutable access. Intents are
// processed one at a time to completion, including any subprocess
// invocation - there is no overlapping mutation.
package controller

import (
	"errors"
	"time"

	"github.com/keyward/keyward/internal/inventory"
	"github.com/keyward/keyward/internal/keygen"
	"github.com/keyward/keyward/internal/util"
)

// Mode is the active input mode. The modes are mutually exclusive;
// entering one suppresses normal navigation.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeConfirmingDelete
	ModeCreatingKey
	ModeShowingBindings
)

// ErrPassphraseMismatch indicates the create form's passphrase entries differ
var ErrPassphraseMismatch = errors.New("passphrase entries do not match")

// Form field indices for the create-key form
const (
	FieldName = iota
	FieldType
	FieldBits
	FieldPassphrase
	FieldConfirmPassphrase
	FieldComment
	FieldCount
)

// FormState carries the create-key form. It only has meaning while the
// controller is in ModeCreatingKey.
type FormState struct {
	Name              string
	TypeIndex         int // index into keygen.KeyTypes
	BitsIndex         int // index into keygen.BitsOptions
	Passphrase        string
	ConfirmPassphrase string
	Comment           string
	Field             int // focused field
	Error             string
}

// AgentClient is the key-agent service surface the controller mutates through
type AgentClient interface {
	Fingerprint(path string) (string, error)
	LoadedFingerprints() ([]string, error)
	Load(path string) error
	Unload(path string) error
}

// Generator is the key-generation service surface
type Generator interface {
	Generate(path string, p keygen.Params) error
	CommandLine(path string, p keygen.Params) string
}

// TrashSink moves a file to a recoverable location
type TrashSink interface {
	Delete(path string) error
}

// ClipboardSink accepts UTF-8 text
type ClipboardSink interface {
	Copy(text string) error
}

// Controller owns the inventory, selection, mode, and command log
type Controller struct {
	store *inventory.Store
	agent AgentClient
	gen   Generator
	trash TrashSink
	clip  ClipboardSink
	now   func() time.Time

	mode      Mode
	selection int
	log       []string
	form      FormState
}

// New creates a controller over its collaborators. The store should be
// scanned (or Rescan called) before the first render.
func New(store *inventory.Store, agent AgentClient, gen Generator, trash TrashSink, clip ClipboardSink) *Controller {
	return &Controller{
		store: store,
		agent: agent,
		gen:   gen,
		trash: trash,
		clip:  clip,
		now:   time.Now,
	}
}

// Mode returns the active input mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// Selection returns the selected inventory index, clamped to the
// current inventory (0 when empty).
func (c *Controller) Selection() int {
	return c.selection
}

// Entries returns a read-only snapshot of the inventory
func (c *Controller) Entries() []inventory.Entry {
	return c.store.Entries()
}

// SelectedEntry returns the entry under the selection
func (c *Controller) SelectedEntry() (inventory.Entry, bool) {
	return c.store.Entry(c.selection)
}

// SelectedContent returns the displayable content of the selected entry
func (c *Controller) SelectedContent() string {
	e, ok := c.SelectedEntry()
	if !ok {
		return "No file selected"
	}
	if e.Placeholder {
		return ""
	}
	content, err := c.store.Content(e)
	if err != nil {
		return "Failed to read file content"
	}
	return content
}

// Log returns a snapshot of the command log, most recent last
func (c *Controller) Log() []string {
	result := make([]string, len(c.log))
	copy(result, c.log)
	return result
}

// Form returns the current create-form state
func (c *Controller) Form() FormState {
	return c.form
}

// UpdateForm replaces the form state. Honored only while the create
// form is open; text editing happens in the renderer, validation here.
func (c *Controller) UpdateForm(f FormState) {
	if c.mode != ModeCreatingKey {
		return
	}
	c.form = f
}

// Rescan rebuilds the inventory from disk and clamps the selection.
// A failed scan is logged and leaves the last-known-good inventory.
func (c *Controller) Rescan() {
	if err := c.store.Scan(); err != nil {
		c.appendLog("Failed to scan key directory: " + err.Error())
		return
	}
	c.clampSelection()
}

// SelectNext moves the selection down one entry
func (c *Controller) SelectNext() {
	if c.selection < c.store.Len()-1 {
		c.selection++
	}
}

// SelectPrevious moves the selection up one entry
func (c *Controller) SelectPrevious() {
	if c.selection > 0 {
		c.selection--
	}
}

// Select moves the selection to index i if it exists
func (c *Controller) Select(i int) {
	if i >= 0 && i < c.store.Len() {
		c.selection = i
	}
}

// ToggleBindings switches between browsing and the key-bindings popup
func (c *Controller) ToggleBindings() {
	switch c.mode {
	case ModeBrowsing:
		c.mode = ModeShowingBindings
	case ModeShowingBindings:
		c.mode = ModeBrowsing
	}
}

// BeginCreate opens the create-key form
func (c *Controller) BeginCreate() {
	if c.mode != ModeBrowsing && c.mode != ModeShowingBindings {
		return
	}
	c.mode = ModeCreatingKey
	// Bits default to 2048, matching ssh-keygen's RSA default
	c.form = FormState{BitsIndex: 1}
}

// CancelCreate closes the create form without generating
func (c *Controller) CancelCreate() {
	if c.mode != ModeCreatingKey {
		return
	}
	c.mode = ModeBrowsing
	c.form = FormState{}
}

// BeginDelete opens the delete confirmation for the selected entry
func (c *Controller) BeginDelete() {
	if c.mode != ModeBrowsing && c.mode != ModeShowingBindings {
		return
	}
	e, ok := c.SelectedEntry()
	if !ok || e.Placeholder {
		return
	}
	c.mode = ModeConfirmingDelete
}

// CancelDelete closes the delete confirmation without deleting
func (c *Controller) CancelDelete() {
	if c.mode != ModeConfirmingDelete {
		return
	}
	c.mode = ModeBrowsing
}

// clampSelection keeps the selection within the current inventory
func (c *Controller) clampSelection() {
	if c.store.Len() == 0 {
		c.selection = 0
		return
	}
	if c.selection >= c.store.Len() {
		c.selection = c.store.Len() - 1
	}
	if c.selection < 0 {
		c.selection = 0
	}
}

// clampSelectionAfterRemove applies the post-deletion selection rule:
// the index stays put (now pointing at the next entry) unless the last
// element was removed, in which case it moves up by one.
func (c *Controller) clampSelectionAfterRemove() {
	c.clampSelection()
}

// appendLog appends one command-log line and mirrors it to the debug log
func (c *Controller) appendLog(line string) {
	c.log = append(c.log, line)
	util.Logger.Info(line)
}
