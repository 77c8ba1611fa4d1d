package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/executor"
)

const testManifest = `{
  "name": "mallard-theme",
  "displayName": "Mallard",
  "publisher": "voxdroid",
  "version": "1.2.3",
  "engines": { "vscode": "^1.80.0" },
  "contributes": {
    "themes": [
      { "label": "Mallard Dark", "uiTheme": "vs-dark", "path": "themes/mallard-color-theme.json" }
    ]
  }
}
`

const testTheme = `{
  "name": "Mallard Dark",
  "type": "dark",
  "colors": { "editor.background": "#101018", "editor.foreground": "#d8d8e8" },
  "tokenColors": [
    { "scope": "comment", "settings": { "foreground": "#5a5a72", "fontStyle": "italic" } },
    { "scope": ["keyword", "storage"], "settings": { "foreground": "#c792ea" } },
    { "scope": "string", "settings": { "foreground": "#c3e88d" } }
  ]
}
`

// seedManifest writes the manifest and theme fixtures into root.
func seedManifest(t *testing.T, root string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, "themes"), 0o755); err != nil {
		t.Fatalf("mkdir themes: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(testManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "themes", "mallard-color-theme.json"), []byte(testTheme), 0o644); err != nil {
		t.Fatalf("write theme: %v", err)
	}
}

// newThemeProject lays out a minimal theme project, points the CLI at it
// via -C and isolates the ledger database.
func newThemeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	seedManifest(t, root)
	chdirProject(t, root)
	t.Setenv("THEMR_DB", filepath.Join(root, "history.db"))
	return root
}

func chdirProject(t *testing.T, root string) {
	t.Helper()
	old := flagChdir
	flagChdir = root
	t.Cleanup(func() { flagChdir = old })
}

// setFlag sets a command flag for one test and restores the default after.
func setFlag(t *testing.T, c *cobra.Command, name, value string) {
	t.Helper()
	f := c.Flags().Lookup(name)
	if f == nil {
		t.Fatalf("flag %q not defined on %s", name, c.Name())
	}
	if err := c.Flags().Set(name, value); err != nil {
		t.Fatalf("set flag %s=%s: %v", name, value, err)
	}
	t.Cleanup(func() { _ = c.Flags().Set(name, f.DefValue) })
}

// stubRunner scripts command responses by joined argv.
type stubRunner struct {
	out     map[string]string
	fail    map[string]error
	missing map[string]bool
	calls   []string
}

func newStub() *stubRunner {
	return &stubRunner{out: map[string]string{}, fail: map[string]error{}, missing: map[string]bool{}}
}

func (f *stubRunner) Run(_ context.Context, cmd executor.Command) (executor.Result, error) {
	key := cmd.Name + " " + strings.Join(cmd.Args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.fail[key]; ok {
		return executor.Result{}, err
	}
	return executor.Result{Stdout: f.out[key]}, nil
}

func (f *stubRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

// useRunner swaps the executor factory for the duration of the test.
func useRunner(t *testing.T, r executor.Runner) {
	t.Helper()
	old := newRunner
	newRunner = func() executor.Runner { return r }
	t.Cleanup(func() { newRunner = old })
}
