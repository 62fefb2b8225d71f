// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

// Package inventory maintains the in-memory model of the user's SSH key
// directory. Files are classified purely by the <name> / <name>.pub
// naming convention; file content is never parsed.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PublicSuffix is the public-key filename suffix
const PublicSuffix = ".pub"

// PlaceholderName is the base name of the sentinel entry shown when the
// key directory does not exist. A missing directory is a UX state, not
// an error.
const PlaceholderName = "No SSH files found"

// ErrIO indicates the key directory could not be read
var ErrIO = errors.New("cannot read key directory")

// Entry is a logical SSH key as seen by the user: a private file, a
// public file, or both. Files whose names are ambiguous (e.g. ending in
// the public suffix twice) carry neither half and are never pairs.
type Entry struct {
	// BaseName is the private-key filename, or the file's own name for
	// standalone entries.
	BaseName string

	HasPrivate bool
	HasPublic  bool

	// Placeholder marks the sentinel entry for a missing key directory.
	Placeholder bool
}

// IsPair reports whether both halves exist on disk
func (e Entry) IsPair() bool {
	return e.HasPrivate && e.HasPublic
}

// DisplayName renders the entry the way the file list shows it:
// pairs as "name - name.pub", everything else as the bare file name.
func (e Entry) DisplayName() string {
	if e.IsPair() {
		return fmt.Sprintf("%s - %s%s", e.BaseName, e.BaseName, PublicSuffix)
	}
	if e.HasPublic && !e.HasPrivate {
		return e.BaseName + PublicSuffix
	}
	return e.BaseName
}

// Store owns the ordered key inventory for a single directory.
// Consumers receive copies via Entries; the backing slice is never
// shared. Store is not safe for concurrent use - the controller
// processes one intent at a time.
type Store struct {
	dir     string
	entries []Entry
}

// NewStore creates a store over the given key directory without scanning
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the scanned key directory
func (s *Store) Dir() string {
	return s.dir
}

// Scan rebuilds the inventory from the directory contents.
//
// Classification: names ending in ".pub" form the public set (suffix
// stripped), remaining names form the private set, and names stripping
// to something that still ends in ".pub" are ambiguous and grouped as
// standalone entries. The paired group is the intersection of the two
// sets. Order: pairs, private-only, public-only, ambiguous - each group
// sorted by name for a stable display.
//
// A missing directory yields a single placeholder entry, not an error.
// Any other read failure returns ErrIO and leaves the previous
// inventory in place.
func (s *Store) Scan() error {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = []Entry{{BaseName: PlaceholderName, Placeholder: true}}
			return nil
		}
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	private := make(map[string]bool)
	public := make(map[string]bool)
	var other []string

	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() {
			continue
		}
		if strings.HasSuffix(name, PublicSuffix) {
			base := strings.TrimSuffix(name, PublicSuffix)
			if strings.HasSuffix(base, PublicSuffix) {
				// "x.pub.pub" and friends - ambiguous, keep as-is
				other = append(other, name)
				continue
			}
			public[base] = true
		} else {
			private[name] = true
		}
	}

	var pairs, privateOnly, publicOnly []string
	for name := range private {
		if public[name] {
			pairs = append(pairs, name)
		} else {
			privateOnly = append(privateOnly, name)
		}
	}
	for name := range public {
		if !private[name] {
			publicOnly = append(publicOnly, name)
		}
	}

	sort.Strings(pairs)
	sort.Strings(privateOnly)
	sort.Strings(publicOnly)
	sort.Strings(other)

	entries := make([]Entry, 0, len(pairs)+len(privateOnly)+len(publicOnly)+len(other))
	for _, name := range pairs {
		entries = append(entries, Entry{BaseName: name, HasPrivate: true, HasPublic: true})
	}
	for _, name := range privateOnly {
		entries = append(entries, Entry{BaseName: name, HasPrivate: true})
	}
	for _, name := range publicOnly {
		entries = append(entries, Entry{BaseName: name, HasPublic: true})
	}
	for _, name := range other {
		entries = append(entries, Entry{BaseName: name})
	}

	s.entries = entries
	return nil
}

// Entries returns a copy of the current inventory
func (s *Store) Entries() []Entry {
	result := make([]Entry, len(s.entries))
	copy(result, s.entries)
	return result
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Entry returns the entry at index i
func (s *Store) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Insert places a new entry into the in-memory inventory at its group
// position and returns its index. Called only after the corresponding
// filesystem operation succeeded; the next scan reaches the same state.
func (s *Store) Insert(e Entry) int {
	if len(s.entries) == 1 && s.entries[0].Placeholder {
		s.entries = nil
	}

	group := func(e Entry) int {
		switch {
		case e.IsPair():
			return 0
		case e.HasPrivate:
			return 1
		case e.HasPublic:
			return 2
		default:
			return 3
		}
	}

	idx := len(s.entries)
	for i, existing := range s.entries {
		if group(existing) > group(e) ||
			(group(existing) == group(e) && existing.BaseName > e.BaseName) {
			idx = i
			break
		}
	}

	s.entries = append(s.entries, Entry{})
	copy(s.entries[idx+1:], s.entries[idx:])
	s.entries[idx] = e
	return idx
}

// Remove drops the entry at index i from the in-memory inventory.
// Called only after the corresponding filesystem operation succeeded.
func (s *Store) Remove(i int) {
	if i < 0 || i >= len(s.entries) {
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
}

// PrivatePath returns the path of the entry's private half
func (s *Store) PrivatePath(e Entry) string {
	return filepath.Join(s.dir, e.BaseName)
}

// PublicPath returns the path of the entry's public half
func (s *Store) PublicPath(e Entry) string {
	return filepath.Join(s.dir, e.BaseName+PublicSuffix)
}

// Path returns the path of the entry's own literal filename.
// For ambiguous standalone files this is the file itself.
func (s *Store) Path(e Entry) string {
	if e.HasPublic && !e.HasPrivate {
		return s.PublicPath(e)
	}
	return filepath.Join(s.dir, e.BaseName)
}

// Content reads the entry's displayable content: the public half for
// pairs and public-only entries, the file itself otherwise.
func (s *Store) Content(e Entry) (string, error) {
	if e.Placeholder {
		return "", nil
	}
	path := s.Path(e)
	if e.IsPair() {
		path = s.PublicPath(e)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}
	return string(data), nil
}
