// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import "strings"

// TagKey converts a raw tag name to its canonical identity: whitespace is
// trimmed, letters are lowercased. Two names denote the same tag iff their
// keys are equal. Returns the empty string for names that are empty after
// trimming; callers treat that as invalid input.
func TagKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(SanitizeString(raw)))
}

// SanitizeString removes null bytes from strings, which can cause issues in
// databases and JSON parsing. Some image metadata sources include null
// terminators in strings.
func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 { // null byte
			return -1 // drop it
		}
		return r
	}, s)
}
