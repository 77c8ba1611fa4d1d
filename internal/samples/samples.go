// Package samples ships the syntax example files used to eyeball a theme
// across languages. The files are embedded so a themr binary can restore
// a project's examples directory from anywhere.
package samples

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed fixtures
var fixtures embed.FS

// Sample is one embedded syntax example.
type Sample struct {
	Name     string // short identifier used on the command line
	Language string // human-readable language label
	File     string // file name used on export
	Lexer    string // preferred highlighting lexer
}

var registry = []Sample{
	{Name: "go", Language: "Go", File: "example.go", Lexer: "go"},
	{Name: "java", Language: "Java", File: "example.java", Lexer: "java"},
	{Name: "jsx", Language: "JavaScript (JSX)", File: "example.jsx", Lexer: "react"},
	{Name: "markdown", Language: "Markdown", File: "example.md", Lexer: "markdown"},
	{Name: "rust", Language: "Rust", File: "example.rs", Lexer: "rust"},
	{Name: "shell", Language: "Shell", File: "example.sh", Lexer: "bash"},
	{Name: "typescript", Language: "TypeScript", File: "example.ts", Lexer: "typescript"},
}

// All returns every sample, sorted by name.
func All() []Sample {
	out := make([]Sample, len(registry))
	copy(out, registry)
	return out
}

// Names returns the sample identifiers, sorted.
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}

// Get resolves a sample by identifier or exported file name.
func Get(name string) (Sample, error) {
	for _, s := range registry {
		if s.Name == name || s.File == name {
			return s, nil
		}
	}
	return Sample{}, fmt.Errorf("unknown sample %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Source returns the embedded file contents.
func (s Sample) Source() (string, error) {
	data, err := fixtures.ReadFile("fixtures/" + s.File)
	if err != nil {
		return "", fmt.Errorf("read embedded sample %s: %w", s.File, err)
	}
	return string(data), nil
}

// Export writes every sample into dir, creating it if needed. Existing
// files are overwritten so export always restores the pristine set. It
// returns the written paths, sorted.
func Export(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create samples dir: %w", err)
	}
	var paths []string
	for _, s := range registry {
		data, err := fixtures.ReadFile("fixtures/" + s.File)
		if err != nil {
			return nil, fmt.Errorf("read embedded sample %s: %w", s.File, err)
		}
		path := filepath.Join(dir, s.File)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// Drift is one mismatch between dir and the embedded set.
type Drift struct {
	File   string
	Reason string // "missing" or "modified"
}

// Verify compares dir against the embedded set and reports files that are
// missing or changed. A clean directory returns an empty slice.
func Verify(dir string) ([]Drift, error) {
	var drifts []Drift
	for _, s := range registry {
		want, err := fixtures.ReadFile("fixtures/" + s.File)
		if err != nil {
			return nil, fmt.Errorf("read embedded sample %s: %w", s.File, err)
		}
		got, err := os.ReadFile(filepath.Join(dir, s.File))
		if os.IsNotExist(err) {
			drifts = append(drifts, Drift{File: s.File, Reason: "missing"})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.File, err)
		}
		if !bytes.Equal(got, want) {
			drifts = append(drifts, Drift{File: s.File, Reason: "modified"})
		}
	}
	return drifts, nil
}
