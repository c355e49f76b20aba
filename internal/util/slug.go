// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation, random tokens and outbound URL checks.
package util

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// slugStrip matches everything outside lowercase letters, digits, whitespace and hyphens
	slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun matches runs of whitespace
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// GenerateSlug converts text to a URL-friendly slug.
// Characters outside [a-z0-9] are dropped rather than transliterated, so
// "Café" becomes "caf". The result is empty when nothing survives.
func GenerateSlug(text string) string {
	result := strings.ToLower(text)

	result = slugStrip.ReplaceAllString(result, "")

	// Each whitespace run becomes one hyphen
	result = whitespaceRun.ReplaceAllString(result, "-")

	result = multipleHyphens.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}

// RandomToken returns n lowercase hex characters taken from a fresh UUIDv4.
// n is capped at 32.
func RandomToken(n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n < 0 {
		n = 0
	}
	if n > len(hex) {
		n = len(hex)
	}
	return hex[:n]
}

// WithSuffix appends "-" and an 8-character random token to slug.
func WithSuffix(slug string) string {
	return slug + "-" + RandomToken(8)
}
