// Package config locates the theme project and loads its optional
// themr.yaml settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project settings file.
const FileName = "themr.yaml"

// Packager selection values for Config.Packager.
const (
	PackagerVsce    = "vsce"
	PackagerBuiltin = "builtin"
)

// Hooks lists commands run around the release pipeline. Each entry is a
// single command line, split shell-style and exec'd directly. Stage names
// extra files the release commit picks up, for hooks that regenerate
// project files.
type Hooks struct {
	PreRelease  []string `yaml:"pre_release"`
	PostRelease []string `yaml:"post_release"`
	Stage       []string `yaml:"stage"`
}

// Config carries the per-project settings. Zero values mean "use default".
type Config struct {
	Manifest       string `yaml:"manifest"`        // manifest path relative to the project root
	TagPrefix      string `yaml:"tag_prefix"`      // prepended to the version when tagging
	CommitTemplate string `yaml:"commit_template"` // commit message; {version} expands to the new version
	Remote         string `yaml:"remote"`          // git remote pushed after tagging
	Packager       string `yaml:"packager"`        // "vsce" or "builtin"
	VsceBin        string `yaml:"vsce_bin"`        // packager binary name
	OutputDir      string `yaml:"output_dir"`      // where .vsix files land, relative to the root
	SamplesDir     string `yaml:"samples_dir"`     // where syntax samples are exported
	Hooks          Hooks  `yaml:"hooks"`
}

// Default returns the settings used when no themr.yaml is present.
func Default() Config {
	return Config{
		Manifest:       "package.json",
		TagPrefix:      "v",
		CommitTemplate: "{version}",
		Remote:         "origin",
		Packager:       PackagerVsce,
		VsceBin:        "vsce",
		OutputDir:      ".",
		SamplesDir:     "examples",
	}
}

// Load reads root/themr.yaml when present and overlays it onto the
// defaults. Unknown keys are rejected so typos surface instead of being
// silently ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", FileName, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var file Config
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse %s: %w", FileName, err)
	}
	cfg.overlay(file)

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", FileName, err)
	}
	return cfg, nil
}

// overlay copies the non-zero fields of file over c.
func (c *Config) overlay(file Config) {
	if file.Manifest != "" {
		c.Manifest = file.Manifest
	}
	if file.TagPrefix != "" {
		c.TagPrefix = file.TagPrefix
	}
	if file.CommitTemplate != "" {
		c.CommitTemplate = file.CommitTemplate
	}
	if file.Remote != "" {
		c.Remote = file.Remote
	}
	if file.Packager != "" {
		c.Packager = file.Packager
	}
	if file.VsceBin != "" {
		c.VsceBin = file.VsceBin
	}
	if file.OutputDir != "" {
		c.OutputDir = file.OutputDir
	}
	if file.SamplesDir != "" {
		c.SamplesDir = file.SamplesDir
	}
	if len(file.Hooks.PreRelease) > 0 {
		c.Hooks.PreRelease = file.Hooks.PreRelease
	}
	if len(file.Hooks.PostRelease) > 0 {
		c.Hooks.PostRelease = file.Hooks.PostRelease
	}
	if len(file.Hooks.Stage) > 0 {
		c.Hooks.Stage = file.Hooks.Stage
	}
}

func (c *Config) validate() error {
	switch c.Packager {
	case PackagerVsce, PackagerBuiltin:
	default:
		return fmt.Errorf("packager must be %q or %q, got %q", PackagerVsce, PackagerBuiltin, c.Packager)
	}
	if filepath.IsAbs(c.Manifest) {
		return fmt.Errorf("manifest must be relative to the project root, got %q", c.Manifest)
	}
	return nil
}

// ManifestPath resolves the manifest location under root.
func (c Config) ManifestPath(root string) string {
	return filepath.Join(root, c.Manifest)
}

// Scaffold writes a commented themr.yaml with the default settings to
// root. It refuses to overwrite an existing file.
func Scaffold(root string) (string, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", FileName)
	}
	body := `# themr project settings. Every key is optional.
manifest: package.json
tag_prefix: v
commit_template: "{version}"
remote: origin
# packager: vsce | builtin
packager: vsce
vsce_bin: vsce
output_dir: .
samples_dir: examples
hooks:
  pre_release: []
  post_release: []
  # extra files staged into the release commit (for hooks that
  # regenerate project files)
  stage: []
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return path, fmt.Errorf("write %s: %w", FileName, err)
	}
	return path, nil
}
