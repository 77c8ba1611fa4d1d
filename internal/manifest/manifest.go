// Package manifest reads and edits VS Code extension manifests
// (package.json). Edits are surgical: only the version line changes, the
// rest of the file keeps its exact bytes so diffs stay reviewable.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/google/renameio/v2"

	"github.com/VoxDroid/themr/internal/bump"
	"github.com/VoxDroid/themr/internal/nameutil"
)

// ErrNoVersion is returned when the manifest carries no version field.
var ErrNoVersion = errors.New("manifest has no version field")

// ThemeContribution is one entry under contributes.themes.
type ThemeContribution struct {
	Label   string `json:"label"`
	UITheme string `json:"uiTheme"`
	Path    string `json:"path"`
}

// Contributes holds the extension points declared by the manifest.
type Contributes struct {
	Themes []ThemeContribution `json:"themes"`
}

// Manifest is the subset of package.json that themr reads.
type Manifest struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Publisher   string            `json:"publisher"`
	Icon        string            `json:"icon"`
	Engines     map[string]string `json:"engines"`
	Categories  []string          `json:"categories"`
	Contributes Contributes       `json:"contributes"`
}

// Load parses the manifest at path.
func Load(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, fmt.Errorf("no manifest at %s: %w", path, err)
		}
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the fields a marketplace upload would reject.
func (m Manifest) Validate() error {
	if err := nameutil.ValidateIdentifier("name", m.Name); err != nil {
		return err
	}
	if err := nameutil.ValidateIdentifier("publisher", m.Publisher); err != nil {
		return err
	}
	if m.DisplayName != "" {
		if err := nameutil.ValidateDisplayName(m.DisplayName); err != nil {
			return err
		}
	}
	if m.Version == "" {
		return ErrNoVersion
	}
	if _, err := bump.Parse(m.Version); err != nil {
		return err
	}
	for i, t := range m.Contributes.Themes {
		if t.Label == "" {
			return fmt.Errorf("contributes.themes[%d]: missing label", i)
		}
		if t.Path == "" {
			return fmt.Errorf("contributes.themes[%d] (%s): missing path", i, t.Label)
		}
	}
	return nil
}

// versionLine matches the manifest's version assignment at the start of a
// line, capturing the prefix, the value, and the closing quote.
var versionLine = regexp.MustCompile(`(?m)^(\s*"version"\s*:\s*")([^"\n]*)(")`)

// WriteVersion replaces the manifest's version with next, leaving every
// other byte untouched. The current value must equal old; a mismatch means
// the file changed under us and the rewrite is refused. The file is
// replaced atomically and keeps its permissions.
func WriteVersion(path, old, next string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	loc := versionLine.FindSubmatchIndex(data)
	if loc == nil {
		return fmt.Errorf("%s: %w", path, ErrNoVersion)
	}
	current := string(data[loc[4]:loc[5]])
	if current != old {
		return fmt.Errorf("manifest version is %q, expected %q", current, old)
	}

	out := make([]byte, 0, len(data)+len(next)-len(old))
	out = append(out, data[:loc[4]]...)
	out = append(out, next...)
	out = append(out, data[loc[5]:]...)

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := renameio.WriteFile(path, out, perm); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
