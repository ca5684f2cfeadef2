// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package cards

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var firstIntPattern = regexp.MustCompile(`-?\d+`)

// NormalizeText applies NFKC normalization and trims surrounding whitespace.
// Scraped card databases mix full-width and half-width forms freely, so every
// string compared against card text goes through here first.
func NormalizeText(raw string) string {
	return strings.TrimSpace(norm.NFKC.String(raw))
}

// ParseTolerantInt extracts the first integer from a messy database value.
// Placeholder values such as "-", "なし" or "null" fall back to def, as does
// anything with no digits at all.
func ParseTolerantInt(raw string, def int) int {
	s := NormalizeText(raw)
	if s == "" {
		return def
	}
	switch strings.ToLower(s) {
	case "nan", "-", "null", "none", "なし", "n/a":
		return def
	}
	match := firstIntPattern.FindString(s)
	if match == "" {
		return def
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return def
	}
	return n
}

// ParseTraits splits a trait field on "/" and drops empty segments.
func ParseTraits(raw string) []string {
	s := NormalizeText(raw)
	if s == "" {
		return nil
	}
	var traits []string
	for _, part := range strings.Split(s, "/") {
		part = strings.TrimSpace(part)
		if part != "" {
			traits = append(traits, part)
		}
	}
	return traits
}
