// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides text helpers shared by the session and render
// layers: identifier normalization and display truncation.
package util

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NormalizeIdentifier returns s in Unicode NFC form with surrounding
// whitespace removed. Identifiers are compared only after normalization so
// that composed and decomposed spellings of the same name match.
func NormalizeIdentifier(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// SameIdentifier reports whether a and b name the same account.
// Comparison is exact after normalization; case is significant.
func SameIdentifier(a, b string) bool {
	return NormalizeIdentifier(a) == NormalizeIdentifier(b)
}

// Truncate shortens s to at most max runes, ending with "…" when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:max-1]), " ") + "…"
}

// OneLine collapses all whitespace runs, including newlines, into single spaces.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
