// Package id generates the prefixed NanoID identifiers used for all
// persisted rows.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID, e.g. "shelf-V1StGXR8_Z5jdHi6B-myT".
// The prefix names the entity kind, which makes IDs self-describing in
// logs and API payloads. NanoIDs are URL-safe and shorter than UUIDs.
//
// Returns an error only when the system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Entropy exhaustion is not a recoverable condition for request handling,
// so callers on the hot path use this form.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
