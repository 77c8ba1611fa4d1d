// Package theme models VS Code color theme files: the workbench color map
// and the TextMate token rules used for syntax highlighting.
package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"
)

// ScopeList is a tokenColors scope entry. Theme files write it either as a
// single string (possibly comma separated) or as an array of strings.
type ScopeList []string

func (s *ScopeList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*s = arr
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	parts := strings.Split(one, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*s = out
	return nil
}

func (s ScopeList) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}

// Settings is the styling block of a token rule.
type Settings struct {
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
	FontStyle  string `json:"fontStyle,omitempty"`
}

// Empty reports whether the settings block sets nothing.
func (s Settings) Empty() bool {
	return s.Foreground == "" && s.Background == "" && s.FontStyle == ""
}

// TokenRule maps TextMate scopes to styling.
type TokenRule struct {
	Name     string    `json:"name,omitempty"`
	Scope    ScopeList `json:"scope,omitempty"`
	Settings Settings  `json:"settings"`
}

// Theme is a VS Code color theme document.
type Theme struct {
	Name        string            `json:"name"`
	Type        string            `json:"type,omitempty"`
	Colors      map[string]string `json:"colors,omitempty"`
	TokenColors []TokenRule       `json:"tokenColors,omitempty"`
}

// ColorEntry is one workbench color, used for palette listings.
type ColorEntry struct {
	Key   string
	Value string
}

// Load parses the theme file at path.
func Load(path string) (Theme, error) {
	var t Theme
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, fmt.Errorf("no theme file at %s: %w", path, err)
		}
		return t, fmt.Errorf("read theme: %w", err)
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// hexColor matches the color formats VS Code accepts: #RGB, #RGBA,
// #RRGGBB and #RRGGBBAA.
var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

var fontStyles = map[string]bool{
	"italic":        true,
	"bold":          true,
	"underline":     true,
	"strikethrough": true,
}

func validColor(v string) bool { return hexColor.MatchString(v) }

func validFontStyle(v string) bool {
	if v == "" {
		return true
	}
	for _, tok := range strings.Fields(v) {
		if !fontStyles[tok] {
			return false
		}
	}
	return true
}

// Validate checks the theme for values VS Code would silently drop or
// render wrong: non-hex colors, unknown font styles, rules that set
// nothing, and an unknown theme type.
func (t Theme) Validate() error {
	switch t.Type {
	case "", "dark", "light", "hc", "hc-light":
	default:
		return fmt.Errorf("unknown theme type %q", t.Type)
	}
	keys := make([]string, 0, len(t.Colors))
	for k := range t.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !validColor(t.Colors[k]) {
			return fmt.Errorf("colors[%q]: %q is not a hex color", k, t.Colors[k])
		}
	}
	for i, r := range t.TokenColors {
		where := fmt.Sprintf("tokenColors[%d]", i)
		if r.Name != "" {
			where = fmt.Sprintf("%s (%s)", where, r.Name)
		}
		if r.Settings.Empty() {
			return fmt.Errorf("%s: settings block sets nothing", where)
		}
		if r.Settings.Foreground != "" && !validColor(r.Settings.Foreground) {
			return fmt.Errorf("%s: foreground %q is not a hex color", where, r.Settings.Foreground)
		}
		if r.Settings.Background != "" && !validColor(r.Settings.Background) {
			return fmt.Errorf("%s: background %q is not a hex color", where, r.Settings.Background)
		}
		if !validFontStyle(r.Settings.FontStyle) {
			return fmt.Errorf("%s: unknown fontStyle %q", where, r.Settings.FontStyle)
		}
	}
	return nil
}

// DuplicateScopes returns the scopes claimed by more than one token rule,
// sorted. VS Code resolves duplicates last-wins, which is almost always an
// authoring mistake worth surfacing.
func (t Theme) DuplicateScopes() []string {
	seen := map[string]int{}
	for _, r := range t.TokenColors {
		for _, sc := range r.Scope {
			seen[sc]++
		}
	}
	var dups []string
	for sc, n := range seen {
		if n > 1 {
			dups = append(dups, sc)
		}
	}
	sort.Strings(dups)
	return dups
}

// Palette returns the workbench colors sorted by key.
func (t Theme) Palette() []ColorEntry {
	out := make([]ColorEntry, 0, len(t.Colors))
	for k, v := range t.Colors {
		out = append(out, ColorEntry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Lookup returns the styling for scope. When several rules claim the same
// scope the last one wins, matching the editor. The bool reports whether
// any rule matched.
func (t Theme) Lookup(scope string) (Settings, bool) {
	var (
		found Settings
		ok    bool
	)
	for _, r := range t.TokenColors {
		for _, sc := range r.Scope {
			if sc == scope {
				found, ok = r.Settings, true
			}
		}
	}
	return found, ok
}
