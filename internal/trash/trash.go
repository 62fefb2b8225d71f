// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

// Package trash moves files to the freedesktop.org trash so deletions
// stay recoverable. Nothing in this tool deletes permanently.
package trash

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound indicates the file to trash does not exist
var ErrNotFound = errors.New("file not found")

// Sink moves files into a trash directory laid out per the XDG trash
// spec: <dir>/files holds the payload, <dir>/info holds a .trashinfo
// record with the original path and deletion time.
type Sink struct {
	dir string
}

// NewSink creates a sink over the given trash directory. An empty dir
// selects the user default ($XDG_DATA_HOME/Trash or
// ~/.local/share/Trash).
func NewSink(dir string) (*Sink, error) {
	if dir == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("cannot resolve home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		dir = filepath.Join(dataDir, "Trash")
	}
	return &Sink{dir: dir}, nil
}

// Dir returns the trash directory
func (s *Sink) Dir() string {
	return s.dir
}

// Delete moves the file at path into the trash. The trashed name gets a
// numeric suffix when a file of the same name is already trashed.
func (s *Sink) Delete(path string) error {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("cannot stat %s: %w", path, err)
	}

	filesDir := filepath.Join(s.dir, "files")
	infoDir := filepath.Join(s.dir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return fmt.Errorf("cannot create trash directory: %w", err)
		}
	}

	name, err := s.availableName(filesDir, infoDir, filepath.Base(path))
	if err != nil {
		return err
	}

	if err := writeTrashInfo(filepath.Join(infoDir, name+".trashinfo"), path); err != nil {
		return err
	}

	dest := filepath.Join(filesDir, name)
	if err := os.Rename(path, dest); err != nil {
		// Cross-device move: copy then remove
		if copyErr := copyFile(path, dest); copyErr != nil {
			_ = os.Remove(filepath.Join(infoDir, name+".trashinfo"))
			return fmt.Errorf("cannot move %s to trash: %w", path, err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("cannot remove %s after trash copy: %w", path, err)
		}
	}
	return nil
}

// availableName finds a trashed name not colliding with existing
// payload or info files. A stat failure other than "does not exist"
// means the trash directory itself is unusable and is returned as an
// error rather than retried under the next suffix.
func (s *Sink) availableName(filesDir, infoDir, base string) (string, error) {
	name := base
	for i := 2; ; i++ {
		_, fErr := os.Lstat(filepath.Join(filesDir, name))
		_, iErr := os.Lstat(filepath.Join(infoDir, name+".trashinfo"))
		if os.IsNotExist(fErr) && os.IsNotExist(iErr) {
			return name, nil
		}
		if fErr != nil && !os.IsNotExist(fErr) {
			return "", fmt.Errorf("cannot probe trash for %s: %w", name, fErr)
		}
		if iErr != nil && !os.IsNotExist(iErr) {
			return "", fmt.Errorf("cannot probe trash for %s: %w", name, iErr)
		}
		name = fmt.Sprintf("%s.%d", base, i)
	}
}

// writeTrashInfo records the original location per the XDG trash spec.
// The Path value percent-encodes reserved characters but keeps the
// slashes, so restore tools can resolve the original location.
func writeTrashInfo(infoPath, originalPath string) error {
	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: originalPath}).EscapedPath(),
		time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(infoPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("cannot write trash info: %w", err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	return out.Close()
}
