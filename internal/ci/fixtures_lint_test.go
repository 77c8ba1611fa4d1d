// Package ci carries repository hygiene checks that run with the normal
// test suite.
package ci

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/VoxDroid/themr/internal/samples"
)

// The embedded syntax samples ship inside release archives and get
// exported into user projects verbatim, so they are held to strict
// hygiene: UTF-8, LF line endings, and a final newline.
func TestSampleFixturesAreClean(t *testing.T) {
	for _, s := range samples.All() {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			src, err := s.Source()
			if err != nil {
				t.Fatalf("Source: %v", err)
			}
			if src == "" {
				t.Fatal("empty fixture")
			}
			if !utf8.ValidString(src) {
				t.Fatal("fixture is not valid UTF-8")
			}
			if strings.Contains(src, "\r") {
				t.Fatal("fixture contains CR line endings")
			}
			if !strings.HasSuffix(src, "\n") {
				t.Fatal("fixture missing final newline")
			}
			if strings.Contains(src, "\x00") {
				t.Fatal("fixture contains NUL bytes")
			}
		})
	}
}

// Export file names double as CLI lookup keys, so they stay lowercase and
// dot-separated.
func TestSampleFileNames(t *testing.T) {
	for _, s := range samples.All() {
		if s.File != strings.ToLower(s.File) {
			t.Fatalf("%s: file name %q is not lowercase", s.Name, s.File)
		}
		if !strings.HasPrefix(s.File, "example.") {
			t.Fatalf("%s: file name %q does not follow the example.<ext> convention", s.Name, s.File)
		}
	}
}
