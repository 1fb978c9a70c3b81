package normalize

import "testing"

func TestTagKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Passthrough
		{"sunset", "sunset"},
		{"wallpaper", "wallpaper"},
		// Case folding
		{"Sunset", "sunset"},
		{"SUNSET", "sunset"},
		{"SunSet", "sunset"},
		// Whitespace
		{"  sunset", "sunset"},
		{"sunset  ", "sunset"},
		{"\tsunset\n", "sunset"},
		{"  Foo ", "foo"},
		// Interior whitespace is preserved
		{"new york", "new york"},
		{" New  York ", "new  york"},
		// Empty after trim
		{"", ""},
		{"   ", ""},
		{"\t\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := TagKey(tt.input)
			if result != tt.expected {
				t.Errorf("TagKey(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTagKeyEquality(t *testing.T) {
	// Names that must collapse to the same tag identity.
	groups := [][]string{
		{"Foo", "  foo ", "FOO", "foo"},
		{"Slow Burn", "slow burn", " SLOW BURN "},
	}

	for _, group := range groups {
		want := TagKey(group[0])
		for _, name := range group[1:] {
			if got := TagKey(name); got != want {
				t.Errorf("TagKey(%q) = %q, want %q (same identity as %q)", name, got, want, group[0])
			}
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean", "hello", "hello"},
		{"null byte", "hel\x00lo", "hello"},
		{"trailing null", "hello\x00", "hello"},
		{"only nulls", "\x00\x00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeString(tt.input); got != tt.expected {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
