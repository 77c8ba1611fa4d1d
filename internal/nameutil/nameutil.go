// Package nameutil validates and sanitizes the naming fields of an
// extension manifest.
package nameutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateIdentifier checks whether the value is acceptable as a marketplace
// identifier (the manifest "name" and "publisher" fields): lowercase letters,
// digits and interior hyphens only. It does NOT mutate the input; use
// SanitizeDisplayName for free-form fields.
func ValidateIdentifier(field, value string) error {
	if value == "" {
		return fmt.Errorf("invalid %s: cannot be empty", field)
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("invalid %s: contains invalid encoding", field)
	}
	for i, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' && i > 0 && i < len(value)-1:
		default:
			return fmt.Errorf("invalid %s %q: only lowercase letters, digits and interior hyphens are allowed", field, value)
		}
	}
	return nil
}

// ValidateDisplayName checks a human-readable name (theme label, manifest
// displayName). It rejects empty values, non-UTF8 bytes and control runes.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("invalid name: name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("invalid name: contains invalid encoding")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid name: contains control character U+%04X (%q)", r, r)
		}
	}
	return nil
}

// SanitizeDisplayName removes common invisible/control characters and returns
// the sanitized string and a boolean indicating whether any change was made.
// It removes control characters, NULs, and zero-width characters commonly
// introduced by copy/paste (e.g., U+200B). Trimming of leading/trailing
// whitespace is also performed.
func SanitizeDisplayName(name string) (string, bool) {
	if name == "" {
		return name, false
	}
	runes := []rune(name)
	out := make([]rune, 0, len(runes))
	changed := false
	for _, r := range runes {
		// keep printable chars and spaces/tabs but remove control chars
		if unicode.IsControl(r) {
			changed = true
			continue
		}
		// remove zero-width and other invisible separators
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			changed = true
			continue
		}
		out = append(out, r)
	}
	res := strings.TrimSpace(string(out))
	if res != name {
		changed = true
	}
	return res, changed
}
