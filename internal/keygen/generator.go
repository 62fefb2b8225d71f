// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

// Package keygen materializes new key pairs on disk by invoking the
// external ssh-keygen binary.
package keygen

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Key type and bit length choices offered by the create form
var (
	KeyTypes    = []string{"rsa", "dsa", "ecdsa", "ed25519"}
	BitsOptions = []string{"1024", "2048", "4096"}
)

// ErrGenerationFailed indicates ssh-keygen reported a failure.
// The wrapped message carries the service's diagnostic text verbatim.
var ErrGenerationFailed = errors.New("key generation failed")

// Params describes one key generation request
type Params struct {
	Name       string
	Type       string // one of KeyTypes
	Bits       string // one of BitsOptions
	Passphrase string
	Comment    string
}

// DefaultKeyName synthesizes a name for an unnamed key request.
// Two requests for the same type within the same second collide;
// ssh-keygen then refuses to overwrite and the failure surfaces in the
// command log.
func DefaultKeyName(keyType string, now time.Time) string {
	return fmt.Sprintf("id_%s_%d", keyType, now.Unix())
}

// Runner executes one external command and returns its captured output
type Runner func(bin string, args ...string) (stdout, stderr []byte, err error)

func execRunner(bin string, args ...string) ([]byte, []byte, error) {
	cmd := exec.Command(bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Generator invokes the key-generation service
type Generator struct {
	bin string
	run Runner
}

// NewGenerator creates a generator using the given ssh-keygen binary
func NewGenerator(bin string) *Generator {
	return &Generator{bin: bin, run: execRunner}
}

// args builds the ssh-keygen argument vector for one request
func args(path string, p Params) []string {
	return []string{
		"-t", p.Type,
		"-b", p.Bits,
		"-f", path,
		"-N", p.Passphrase,
		"-C", p.Comment,
	}
}

// CommandLine renders the invocation for the command log with the
// passphrase redacted. The raw passphrase is never logged.
func (g *Generator) CommandLine(path string, p Params) string {
	return fmt.Sprintf("%s -t %s -b %s -f %s -N [REDACTED] -C %s",
		g.bin, p.Type, p.Bits, path, p.Comment)
}

// Generate creates the key pair at path (private) and path+".pub"
// (public) in one synchronous ssh-keygen invocation. On failure the
// returned error wraps ErrGenerationFailed and carries ssh-keygen's
// diagnostic output verbatim.
func (g *Generator) Generate(path string, p Params) error {
	_, stderr, err := g.run(g.bin, args(path, p)...)
	if err != nil {
		diag := strings.TrimSpace(string(stderr))
		if diag == "" {
			diag = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrGenerationFailed, diag)
	}
	return nil
}
