// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package keygen

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestDefaultKeyName verifies name synthesis for unnamed requests
func TestDefaultKeyName(t *testing.T) {
	tests := []struct {
		keyType string
		unix    int64
		want    string
	}{
		{"ed25519", 1700000000, "id_ed25519_1700000000"},
		{"rsa", 1, "id_rsa_1"},
		{"ecdsa", 1699999999, "id_ecdsa_1699999999"},
	}

	for _, tt := range tests {
		t.Run(tt.keyType, func(t *testing.T) {
			got := DefaultKeyName(tt.keyType, time.Unix(tt.unix, 0))
			if got != tt.want {
				t.Errorf("DefaultKeyName = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestGenerateInvocation verifies the exact ssh-keygen argument vector
func TestGenerateInvocation(t *testing.T) {
	var gotBin string
	var gotArgs []string
	g := NewGenerator("/usr/bin/ssh-keygen")
	g.run = func(bin string, args ...string) ([]byte, []byte, error) {
		gotBin = bin
		gotArgs = args
		return nil, nil, nil
	}

	p := Params{Type: "rsa", Bits: "4096", Passphrase: "secret", Comment: "work laptop"}
	if err := g.Generate("/home/u/.ssh/id_rsa_work", p); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if gotBin != "/usr/bin/ssh-keygen" {
		t.Errorf("bin = %q", gotBin)
	}
	want := []string{"-t", "rsa", "-b", "4096", "-f", "/home/u/.ssh/id_rsa_work", "-N", "secret", "-C", "work laptop"}
	if strings.Join(gotArgs, "\x00") != strings.Join(want, "\x00") {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}
}

// TestGenerateFailureCarriesDiagnostics verifies verbatim stderr in the error
func TestGenerateFailureCarriesDiagnostics(t *testing.T) {
	g := NewGenerator("ssh-keygen")
	g.run = func(bin string, args ...string) ([]byte, []byte, error) {
		return nil, []byte("Saving key failed: permission denied\n"), errors.New("exit status 1")
	}

	err := g.Generate("/k", Params{Type: "ed25519", Bits: "2048"})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
	if !strings.Contains(err.Error(), "Saving key failed: permission denied") {
		t.Errorf("error %q should carry ssh-keygen diagnostics", err)
	}
}

// TestGenerateFailureWithoutStderr falls back to the exec error
func TestGenerateFailureWithoutStderr(t *testing.T) {
	g := NewGenerator("ssh-keygen")
	g.run = func(bin string, args ...string) ([]byte, []byte, error) {
		return nil, nil, errors.New("executable file not found in $PATH")
	}

	err := g.Generate("/k", Params{Type: "rsa", Bits: "2048"})
	if err == nil || !strings.Contains(err.Error(), "executable file not found") {
		t.Errorf("err = %v, want exec error text", err)
	}
}

// TestCommandLineRedactsPassphrase verifies the passphrase never appears
func TestCommandLineRedactsPassphrase(t *testing.T) {
	g := NewGenerator("ssh-keygen")
	p := Params{Type: "rsa", Bits: "2048", Passphrase: "hunter2", Comment: "c"}

	line := g.CommandLine("/home/u/.ssh/id_rsa", p)
	if strings.Contains(line, "hunter2") {
		t.Fatalf("command line %q leaks the passphrase", line)
	}
	if !strings.Contains(line, "-N [REDACTED]") {
		t.Errorf("command line %q should show the redaction marker", line)
	}
	if !strings.Contains(line, "-f /home/u/.ssh/id_rsa") {
		t.Errorf("command line %q should show the output path", line)
	}
}
