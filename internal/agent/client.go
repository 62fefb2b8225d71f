// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

// Package agent talks to the running ssh-agent through the ssh-add and
// ssh-keygen binaries. Every call is one synchronous subprocess
// invocation with no retries; a failed invocation surfaces immediately
// as an error for the caller to log.
package agent

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Common agent errors
var (
	// ErrAgentUnavailable indicates the agent could not be queried
	// (no agent socket, ssh-add missing). Callers treat this as
	// "nothing loaded", never as a fatal condition.
	ErrAgentUnavailable = errors.New("ssh-agent unavailable")

	// ErrFingerprint indicates ssh-keygen could not fingerprint the file
	ErrFingerprint = errors.New("cannot compute fingerprint")
)

// Runner executes one external command and returns its captured output.
// Tests substitute a fake; production uses execRunner.
type Runner func(bin string, args ...string) (stdout, stderr []byte, err error)

// execRunner runs the command synchronously, capturing both streams.
// It blocks for the duration of the invocation - no timeout is imposed.
func execRunner(bin string, args ...string) ([]byte, []byte, error) {
	cmd := exec.Command(bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Client invokes the key-agent service binaries
type Client struct {
	keygenBin string
	addBin    string
	run       Runner
}

// NewClient creates a client using the given ssh-keygen and ssh-add binaries
func NewClient(keygenBin, addBin string) *Client {
	return &Client{keygenBin: keygenBin, addBin: addBin, run: execRunner}
}

// Fingerprint computes the fingerprint of the key file at path via
// `ssh-keygen -lf`. The fingerprint is the second whitespace-separated
// field of the output (e.g. "SHA256:..."). Returns ErrFingerprint when
// the file is not a parseable key or the invocation fails.
func (c *Client) Fingerprint(path string) (string, error) {
	stdout, stderr, err := c.run(c.keygenBin, "-lf", path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrFingerprint, firstLine(stderr, err))
	}

	fields := strings.Fields(string(stdout))
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: unexpected ssh-keygen output %q", ErrFingerprint, strings.TrimSpace(string(stdout)))
	}
	return fields[1], nil
}

// LoadedFingerprints returns the agent's `ssh-add -l` listing, one line
// per loaded key. Membership tests are substring matches against these
// lines, so callers get the raw (whitespace-trimmed) lines rather than
// parsed fingerprints. Any failure - including "no identities", which
// ssh-add reports with a non-zero exit - yields ErrAgentUnavailable.
func (c *Client) LoadedFingerprints() ([]string, error) {
	stdout, stderr, err := c.run(c.addBin, "-l")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAgentUnavailable, firstLine(stderr, err))
	}

	var lines []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Load adds the private key at path to the agent via `ssh-add`
func (c *Client) Load(path string) error {
	_, stderr, err := c.run(c.addBin, path)
	if err != nil {
		return fmt.Errorf("ssh-add failed: %s", firstLine(stderr, err))
	}
	return nil
}

// Unload removes the key at path from the agent via `ssh-add -d`.
// ssh-add resolves the key by its public half next to the private file.
func (c *Client) Unload(path string) error {
	_, stderr, err := c.run(c.addBin, "-d", path)
	if err != nil {
		return fmt.Errorf("ssh-add -d failed: %s", firstLine(stderr, err))
	}
	return nil
}

// firstLine extracts a one-line diagnostic from captured stderr,
// falling back to the exec error itself.
func firstLine(stderr []byte, err error) string {
	text := strings.TrimSpace(string(stderr))
	if text == "" {
		return err.Error()
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return text
}
