// Package model is the framework-agnostic core of the preview TUI. It
// depends only on the adapter interfaces so tests can exercise selection,
// rendering and reload logic without a terminal.
package model

import (
	"fmt"
	"strings"

	"github.com/VoxDroid/themr/internal/tui/adapters"
)

// UIModel caches rendered previews per sample and drops the cache when
// the theme reloads.
type UIModel struct {
	samples adapters.SampleProvider
	theme   adapters.ThemeProvider

	items []adapters.SampleInfo
	cache map[string]string
}

// New constructs a UIModel backed by the provided adapters.
func New(sp adapters.SampleProvider, tp adapters.ThemeProvider) *UIModel {
	return &UIModel{
		samples: sp,
		theme:   tp,
		items:   sp.List(),
		cache:   map[string]string{},
	}
}

// ThemeName returns the loaded theme's display name.
func (m *UIModel) ThemeName() string { return m.theme.Name() }

// Items returns every sample in display order.
func (m *UIModel) Items() []adapters.SampleInfo { return m.items }

// Filter returns the samples whose name or language contains q,
// case-insensitively. An empty query returns everything.
func (m *UIModel) Filter(q string) []adapters.SampleInfo {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return m.items
	}
	var out []adapters.SampleInfo
	for _, it := range m.items {
		if strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(strings.ToLower(it.Language), q) {
			out = append(out, it)
		}
	}
	return out
}

// Preview returns the highlighted rendering of the named sample, cached
// until the next theme reload.
func (m *UIModel) Preview(name string) (string, error) {
	if cached, ok := m.cache[name]; ok {
		return cached, nil
	}
	var info adapters.SampleInfo
	found := false
	for _, it := range m.items {
		if it.Name == name {
			info, found = it, true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("unknown sample %q", name)
	}
	src, err := m.samples.Source(name)
	if err != nil {
		return "", err
	}
	rendered, err := m.theme.Render(src, info.Lexer, info.File)
	if err != nil {
		return "", err
	}
	m.cache[name] = rendered
	return rendered, nil
}

// Reload re-reads the theme from disk and invalidates every cached
// preview so the next render reflects the new colors.
func (m *UIModel) Reload() error {
	if err := m.theme.Reload(); err != nil {
		return err
	}
	m.cache = map[string]string{}
	return nil
}
