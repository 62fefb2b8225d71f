// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Keyward Authors

package agent

import (
	"os"
	"strings"

	"github.com/keyward/keyward/internal/inventory"
)

// Status classifies an inventory entry's relationship to the agent
type Status int

const (
	// StatusNotAKey means the entry has no public half on disk
	StatusNotAKey Status = iota
	// StatusLoaded means the entry's fingerprint appears in the agent listing
	StatusLoaded
	// StatusNotLoaded means the agent listing does not contain the fingerprint
	StatusNotLoaded
	// StatusError means the fingerprint could not be computed
	StatusError
)

// StatusResult is the outcome of a status query. Message is set for
// StatusError only.
type StatusResult struct {
	Status  Status
	Message string
}

// FingerprintSource is the subset of Client the resolver needs
type FingerprintSource interface {
	Fingerprint(path string) (string, error)
	LoadedFingerprints() ([]string, error)
}

// StatusResolver answers "is this entry loaded in the agent?".
// It is read-only and performs no mutation; each call makes at least
// one and at most two subprocess invocations. Results are deliberately
// not cached - the agent is externally owned and may change between
// calls.
type StatusResolver struct {
	store  *inventory.Store
	client FingerprintSource
}

// NewStatusResolver creates a resolver over the given store and client
func NewStatusResolver(store *inventory.Store, client FingerprintSource) *StatusResolver {
	return &StatusResolver{store: store, client: client}
}

// Status resolves the agent status of an entry. Entries without a
// public half (or whose public file has vanished since the scan) are
// not keys as far as the agent is concerned. An unreachable agent
// reads as "not loaded", never as an error.
func (r *StatusResolver) Status(e inventory.Entry) StatusResult {
	if e.Placeholder || !e.HasPublic {
		return StatusResult{Status: StatusNotAKey}
	}

	pubPath := r.store.PublicPath(e)
	if _, err := os.Stat(pubPath); err != nil {
		return StatusResult{Status: StatusNotAKey}
	}

	fingerprint, err := r.client.Fingerprint(pubPath)
	if err != nil {
		return StatusResult{Status: StatusError, Message: err.Error()}
	}

	lines, err := r.client.LoadedFingerprints()
	if err != nil {
		// Agent unreachable - treat as nothing loaded
		return StatusResult{Status: StatusNotLoaded}
	}

	if ContainsFingerprint(lines, fingerprint) {
		return StatusResult{Status: StatusLoaded}
	}
	return StatusResult{Status: StatusNotLoaded}
}

// ContainsFingerprint tests membership of a fingerprint against the
// agent listing. Each listing line is matched by substring after
// whitespace normalization.
func ContainsFingerprint(lines []string, fingerprint string) bool {
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return false
	}
	for _, line := range lines {
		if strings.Contains(strings.Join(strings.Fields(line), " "), fingerprint) {
			return true
		}
	}
	return false
}
