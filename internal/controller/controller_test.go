// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package controller

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keyward/keyward/internal/inventory"
	"github.com/keyward/keyward/internal/keygen"
)

// fakeAgent is a stateful in-memory agent
type fakeAgent struct {
	loaded      map[string]bool // fingerprint -> present
	fingerprint string
	fpErr       error
	listErr     error
	loadErr     error
	loadCalls   int
	unloadCalls int
}

func newFakeAgent() *fakeAgent {
	return &fakeAgent{loaded: map[string]bool{}, fingerprint: "SHA256:abc"}
}

func (a *fakeAgent) Fingerprint(path string) (string, error) {
	return a.fingerprint, a.fpErr
}

func (a *fakeAgent) LoadedFingerprints() ([]string, error) {
	if a.listErr != nil {
		return nil, a.listErr
	}
	var lines []string
	for fp := range a.loaded {
		lines = append(lines, "256 "+fp+" u@h (ED25519)")
	}
	return lines, nil
}

func (a *fakeAgent) Load(path string) error {
	a.loadCalls++
	if a.loadErr != nil {
		return a.loadErr
	}
	a.loaded[a.fingerprint] = true
	return nil
}

func (a *fakeAgent) Unload(path string) error {
	a.unloadCalls++
	delete(a.loaded, a.fingerprint)
	return nil
}

// fakeGenerator writes a key pair to disk like ssh-keygen would
type fakeGenerator struct {
	calls int
	err   error
}

func (g *fakeGenerator) Generate(path string, p keygen.Params) error {
	g.calls++
	if g.err != nil {
		return g.err
	}
	if err := os.WriteFile(path, []byte("private"), 0600); err != nil {
		return err
	}
	return os.WriteFile(path+".pub", []byte("ssh-ed25519 AAAA u@h\n"), 0644)
}

func (g *fakeGenerator) CommandLine(path string, p keygen.Params) string {
	return "ssh-keygen -t " + p.Type + " -b " + p.Bits + " -f " + path + " -N [REDACTED] -C " + p.Comment
}

// fakeTrash removes the file and records what it saw
type fakeTrash struct {
	deleted []string
	err     error
}

func (t *fakeTrash) Delete(path string) error {
	if t.err != nil {
		return t.err
	}
	t.deleted = append(t.deleted, path)
	return os.Remove(path)
}

// fakeClip records copied text
type fakeClip struct {
	copied []string
	err    error
}

func (c *fakeClip) Copy(text string) error {
	if c.err != nil {
		return c.err
	}
	c.copied = append(c.copied, text)
	return nil
}

// fixture builds a controller over a real scanned directory
type fixture struct {
	ctrl  *Controller
	store *inventory.Store
	dir   string
	agent *fakeAgent
	gen   *fakeGenerator
	trash *fakeTrash
	clip  *fakeClip
}

func newFixture(t *testing.T, files ...string) *fixture {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	f := &fixture{
		store: inventory.NewStore(dir),
		dir:   dir,
		agent: newFakeAgent(),
		gen:   &fakeGenerator{},
		trash: &fakeTrash{},
		clip:  &fakeClip{},
	}
	f.ctrl = New(f.store, f.agent, f.gen, f.trash, f.clip)
	f.ctrl.Rescan()
	return f
}

// lastLog returns the most recent command-log line
func (f *fixture) lastLog(t *testing.T) string {
	t.Helper()
	log := f.ctrl.Log()
	if len(log) == 0 {
		t.Fatal("command log is empty")
	}
	return log[len(log)-1]
}

func TestSelectionNavigation(t *testing.T) {
	f := newFixture(t, "a", "a.pub", "b", "b.pub", "c", "c.pub")

	if f.ctrl.Selection() != 0 {
		t.Fatalf("initial selection = %d", f.ctrl.Selection())
	}
	f.ctrl.SelectNext()
	f.ctrl.SelectNext()
	if f.ctrl.Selection() != 2 {
		t.Errorf("selection = %d, want 2", f.ctrl.Selection())
	}
	f.ctrl.SelectNext()
	if f.ctrl.Selection() != 2 {
		t.Errorf("selection moved past last entry: %d", f.ctrl.Selection())
	}
	f.ctrl.SelectPrevious()
	f.ctrl.SelectPrevious()
	f.ctrl.SelectPrevious()
	if f.ctrl.Selection() != 0 {
		t.Errorf("selection moved before first entry: %d", f.ctrl.Selection())
	}
	f.ctrl.Select(1)
	if f.ctrl.Selection() != 1 {
		t.Errorf("Select(1) gave %d", f.ctrl.Selection())
	}
	f.ctrl.Select(99)
	if f.ctrl.Selection() != 1 {
		t.Errorf("out-of-range Select moved the selection: %d", f.ctrl.Selection())
	}
}

func TestModeTransitions(t *testing.T) {
	f := newFixture(t, "a", "a.pub")

	f.ctrl.ToggleBindings()
	if f.ctrl.Mode() != ModeShowingBindings {
		t.Fatalf("mode = %v after toggle", f.ctrl.Mode())
	}
	f.ctrl.ToggleBindings()
	if f.ctrl.Mode() != ModeBrowsing {
		t.Fatalf("mode = %v after second toggle", f.ctrl.Mode())
	}

	f.ctrl.BeginDelete()
	if f.ctrl.Mode() != ModeConfirmingDelete {
		t.Fatalf("mode = %v after BeginDelete", f.ctrl.Mode())
	}
	f.ctrl.CancelDelete()
	if f.ctrl.Mode() != ModeBrowsing {
		t.Fatalf("mode = %v after CancelDelete", f.ctrl.Mode())
	}
	if len(f.trash.deleted) != 0 {
		t.Error("cancelled delete must not trash anything")
	}

	f.ctrl.BeginCreate()
	if f.ctrl.Mode() != ModeCreatingKey {
		t.Fatalf("mode = %v after BeginCreate", f.ctrl.Mode())
	}
	f.ctrl.CancelCreate()
	if f.ctrl.Mode() != ModeBrowsing {
		t.Fatalf("mode = %v after CancelCreate", f.ctrl.Mode())
	}
	if f.gen.calls != 0 {
		t.Error("cancelled create must not run the generator")
	}
}

func TestBeginDeleteEmptyInventoryIsIgnored(t *testing.T) {
	f := newFixture(t)

	f.ctrl.BeginDelete()
	if f.ctrl.Mode() != ModeBrowsing {
		t.Errorf("delete confirmation opened with nothing selected")
	}
}

func TestBeginDeletePlaceholderIsIgnored(t *testing.T) {
	store := inventory.NewStore(filepath.Join(t.TempDir(), "missing"))
	c := New(store, newFakeAgent(), &fakeGenerator{}, &fakeTrash{}, &fakeClip{})
	c.Rescan()

	e, ok := c.SelectedEntry()
	if !ok || !e.Placeholder {
		t.Fatalf("entry = %+v, want the placeholder", e)
	}
	c.BeginDelete()
	if c.Mode() != ModeBrowsing {
		t.Errorf("delete confirmation opened for the placeholder entry")
	}
}

func TestAddToAgentIsIdempotent(t *testing.T) {
	f := newFixture(t, "id_rsa", "id_rsa.pub")

	f.ctrl.AddToAgent()
	if f.agent.loadCalls != 1 {
		t.Fatalf("loadCalls = %d after first add", f.agent.loadCalls)
	}
	if got := f.lastLog(t); !strings.Contains(got, "SSH key added to agent") {
		t.Errorf("log = %q", got)
	}

	f.ctrl.AddToAgent()
	if f.agent.loadCalls != 1 {
		t.Errorf("loadCalls = %d, second add must not invoke ssh-add", f.agent.loadCalls)
	}
	if got := f.lastLog(t); !strings.Contains(got, "SSH key is already added to agent") {
		t.Errorf("log = %q", got)
	}
}

func TestAddToAgentRejectsNonPair(t *testing.T) {
	f := newFixture(t, "known_hosts")

	f.ctrl.AddToAgent()
	if f.agent.loadCalls != 0 {
		t.Error("non-pair entry must not reach ssh-add")
	}
	want := "Cannot add: known_hosts is not a private key file of an SSH pair"
	if got := f.lastLog(t); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestAddToAgentWhenAgentUnreachable(t *testing.T) {
	f := newFixture(t, "id_rsa", "id_rsa.pub")
	f.agent.listErr = errors.New("agent refused connection")

	// A dead listing must not block the add attempt
	f.ctrl.AddToAgent()
	if f.agent.loadCalls != 1 {
		t.Errorf("loadCalls = %d, want 1", f.agent.loadCalls)
	}
}

func TestAddToAgentLoadFailure(t *testing.T) {
	f := newFixture(t, "id_rsa", "id_rsa.pub")
	f.agent.loadErr = errors.New("Could not add identity")

	f.ctrl.AddToAgent()
	if got := f.lastLog(t); !strings.Contains(got, "Failed to add SSH key to agent: Could not add identity") {
		t.Errorf("log = %q", got)
	}
}

func TestRemoveFromAgent(t *testing.T) {
	f := newFixture(t, "id_rsa", "id_rsa.pub")

	f.ctrl.RemoveFromAgent()
	if f.agent.unloadCalls != 0 {
		t.Error("removing an unloaded key must not invoke ssh-add -d")
	}
	if got := f.lastLog(t); !strings.Contains(got, "SSH key is not added to agent") {
		t.Errorf("log = %q", got)
	}

	f.ctrl.AddToAgent()
	f.ctrl.RemoveFromAgent()
	if f.agent.unloadCalls != 1 {
		t.Errorf("unloadCalls = %d, want 1", f.agent.unloadCalls)
	}
	if got := f.lastLog(t); !strings.Contains(got, "SSH key removed from agent") {
		t.Errorf("log = %q", got)
	}
}

func TestCopyPublicKey(t *testing.T) {
	f := newFixture(t, "id_rsa")
	pub := filepath.Join(f.dir, "id_rsa.pub")
	if err := os.WriteFile(pub, []byte("ssh-rsa AAAA u@h\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.ctrl.Rescan()

	f.ctrl.CopyPublicKey()
	if len(f.clip.copied) != 1 || f.clip.copied[0] != "ssh-rsa AAAA u@h" {
		t.Errorf("copied = %q", f.clip.copied)
	}
	want := "Copy to clipboard: " + pub + " -> SSH public key copied to clipboard"
	if got := f.lastLog(t); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestCopyPublicKeyRejectsNonPair(t *testing.T) {
	f := newFixture(t, "orphan.pub")

	f.ctrl.CopyPublicKey()
	if len(f.clip.copied) != 0 {
		t.Error("non-pair entry must not be copied")
	}
	if got := f.lastLog(t); !strings.Contains(got, "is not a public key file of an SSH pair") {
		t.Errorf("log = %q", got)
	}
}

func TestSubmitCreatePassphraseMismatch(t *testing.T) {
	f := newFixture(t)
	f.ctrl.BeginCreate()

	form := f.ctrl.Form()
	form.Passphrase = "one"
	form.ConfirmPassphrase = "two"
	f.ctrl.UpdateForm(form)

	err := f.ctrl.SubmitCreate()
	if !errors.Is(err, ErrPassphraseMismatch) {
		t.Fatalf("err = %v, want ErrPassphraseMismatch", err)
	}
	if f.gen.calls != 0 {
		t.Error("mismatch must be caught before the generator runs")
	}
	if f.ctrl.Mode() != ModeCreatingKey {
		t.Error("form must stay open after a mismatch")
	}
	if f.ctrl.Form().Error == "" {
		t.Error("form should carry the validation error")
	}
}

func TestSubmitCreateRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.ctrl.BeginCreate()

	form := f.ctrl.Form()
	form.Name = "deploy_key"
	form.TypeIndex = 3 // ed25519
	form.Passphrase = "s3cret"
	form.ConfirmPassphrase = "s3cret"
	f.ctrl.UpdateForm(form)

	if err := f.ctrl.SubmitCreate(); err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}
	if f.ctrl.Mode() != ModeBrowsing {
		t.Errorf("mode = %v after successful create", f.ctrl.Mode())
	}
	if f.ctrl.Selection() != 0 {
		t.Errorf("selection = %d, want 0 after create", f.ctrl.Selection())
	}

	entries := f.ctrl.Entries()
	if len(entries) != 1 || entries[0].BaseName != "deploy_key" || !entries[0].IsPair() {
		t.Errorf("entries = %+v, want the new pair", entries)
	}

	for _, line := range f.ctrl.Log() {
		if strings.Contains(line, "s3cret") {
			t.Errorf("passphrase leaked into log: %q", line)
		}
	}
}

func TestSubmitCreateResetsSelection(t *testing.T) {
	f := newFixture(t, "a", "a.pub", "b", "b.pub")
	f.ctrl.Select(1)
	f.ctrl.BeginCreate()

	form := f.ctrl.Form()
	form.Name = "z_key"
	form.TypeIndex = 3
	f.ctrl.UpdateForm(form)

	if err := f.ctrl.SubmitCreate(); err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}
	// Selection returns to the top of the refreshed list even though
	// the new pair sorts last
	if f.ctrl.Selection() != 0 {
		t.Errorf("selection = %d, want 0 after create", f.ctrl.Selection())
	}
	entries := f.ctrl.Entries()
	if len(entries) != 3 || entries[2].BaseName != "z_key" {
		t.Errorf("entries = %+v, want the new pair sorted last", entries)
	}
}

func TestSubmitCreateBlankNameGetsDefault(t *testing.T) {
	f := newFixture(t)
	f.ctrl.BeginCreate()

	form := f.ctrl.Form()
	form.TypeIndex = 3
	f.ctrl.UpdateForm(form)

	if err := f.ctrl.SubmitCreate(); err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}
	entries := f.ctrl.Entries()
	if len(entries) != 1 || !strings.HasPrefix(entries[0].BaseName, "id_ed25519_") {
		t.Errorf("entries = %+v, want a generated default name", entries)
	}
}

func TestSubmitCreateGeneratorFailure(t *testing.T) {
	f := newFixture(t)
	f.ctrl.BeginCreate()
	f.gen.err = errors.New("Saving key failed: permission denied")

	if err := f.ctrl.SubmitCreate(); err == nil {
		t.Fatal("expected generator error")
	}
	if f.ctrl.Mode() != ModeCreatingKey {
		t.Error("form must stay open after a generation failure")
	}
	if got := f.lastLog(t); !strings.Contains(got, "permission denied") {
		t.Errorf("log = %q, want verbatim diagnostics", got)
	}
}

func TestConfirmDeleteRemovesPairAndClampsSelection(t *testing.T) {
	f := newFixture(t, "a", "a.pub", "b", "b.pub")
	f.ctrl.Select(1)

	f.ctrl.BeginDelete()
	f.ctrl.ConfirmDelete()

	if len(f.trash.deleted) != 2 {
		t.Fatalf("deleted = %v, want both halves", f.trash.deleted)
	}
	if f.ctrl.Mode() != ModeBrowsing {
		t.Errorf("mode = %v after delete", f.ctrl.Mode())
	}
	// Last entry was removed, selection moves up
	if f.ctrl.Selection() != 0 {
		t.Errorf("selection = %d, want 0", f.ctrl.Selection())
	}
	if len(f.ctrl.Entries()) != 1 {
		t.Errorf("entries = %+v", f.ctrl.Entries())
	}
	if got := f.lastLog(t); !strings.Contains(got, "SSH key moved to trash") {
		t.Errorf("log = %q", got)
	}
}

func TestConfirmDeleteLastEntry(t *testing.T) {
	f := newFixture(t, "only", "only.pub")

	f.ctrl.BeginDelete()
	f.ctrl.ConfirmDelete()

	if got := len(f.ctrl.Entries()); got != 0 {
		t.Errorf("entry count = %d after deleting the only entry", got)
	}
	if f.ctrl.Selection() != 0 {
		t.Errorf("selection = %d, want 0 on empty inventory", f.ctrl.Selection())
	}
}

func TestConfirmDeleteBothHalvesFail(t *testing.T) {
	f := newFixture(t, "a", "a.pub")
	f.trash.err = errors.New("trash directory is read-only")

	f.ctrl.BeginDelete()
	f.ctrl.ConfirmDelete()

	if len(f.ctrl.Entries()) != 1 {
		t.Error("entry must survive when nothing was trashed")
	}
	if got := f.lastLog(t); !strings.Contains(got, "Failed to move to trash") {
		t.Errorf("log = %q", got)
	}
}

func TestRescanKeepsSelectionInRange(t *testing.T) {
	f := newFixture(t, "a", "a.pub", "b", "b.pub")
	f.ctrl.Select(1)

	for _, name := range []string{"b", "b.pub"} {
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil {
			t.Fatalf("remove %s: %v", name, err)
		}
	}
	f.ctrl.Rescan()

	if f.ctrl.Selection() != 0 {
		t.Errorf("selection = %d after shrinking rescan", f.ctrl.Selection())
	}
}

func TestLogReturnsCopy(t *testing.T) {
	f := newFixture(t, "a", "a.pub")
	f.ctrl.AddToAgent()

	log := f.ctrl.Log()
	log[0] = "tampered"
	if f.lastLog(t) == "tampered" {
		t.Error("Log must return a copy")
	}
}
