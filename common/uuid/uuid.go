// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a new random UUID in its canonical 36-char string form.
// Game ids, observer ids and card instance uuids are all strings on the wire
// and TEXT columns in the snapshot store, so we keep the string form everywhere.
func New() string {
	return uuid.NewString()
}

// Parse validates s as a UUID and returns its canonical form.
func Parse(s string) (string, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid UUID string %q: %w", s, err)
	}
	return parsed.String(), nil
}

// MustParse returns the canonical form of s, panicking on malformed input.
// Returns empty string for empty input.
func MustParse(s string) string {
	if s == "" {
		return ""
	}
	parsed, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return parsed
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
