package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindProjectRootStopsAtConfigFile(t *testing.T) {
	tmp := t.TempDir()
	nested := filepath.Join(tmp, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, FileName), []byte("packager: vsce\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if root != tmp {
		t.Fatalf("root = %q, want %q", root, tmp)
	}
}

func TestFindProjectRootFallsBackToManifest(t *testing.T) {
	tmp := t.TempDir()
	nested := filepath.Join(tmp, "src")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "package.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if root != tmp {
		t.Fatalf("root = %q, want %q", root, tmp)
	}
}

func TestFindProjectRootPrefersConfigOverOuterManifest(t *testing.T) {
	tmp := t.TempDir()
	inner := filepath.Join(tmp, "themes", "midnight")
	if err := os.MkdirAll(inner, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Outer manifest, inner config file. The walk from inner must stop at
	// the config file before ever seeing the manifest.
	if err := os.WriteFile(filepath.Join(tmp, "package.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(inner, FileName), []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root, err := FindProjectRoot(inner)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if root != inner {
		t.Fatalf("root = %q, want %q", root, inner)
	}
}

func TestFindProjectRootErrorsWhenNothingFound(t *testing.T) {
	tmp := t.TempDir()
	if _, err := FindProjectRoot(tmp); err == nil {
		t.Fatal("expected error for directory with no markers")
	}
}

func TestEnsureDataDirCreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	dir, err := EnsureDataDir(tmp)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	if dir != filepath.Join(tmp, dataDirName) {
		t.Fatalf("dir = %q, want project-local %q", dir, dataDirName)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("%q is not a directory", dir)
	}
}

func TestDBPathEnvOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "elsewhere.db")
	t.Setenv(EnvThemrDB, override)
	if got := DBPath("/proj"); got != override {
		t.Fatalf("DBPath = %q, want %q", got, override)
	}
}

func TestDBPathDefault(t *testing.T) {
	t.Setenv(EnvThemrDB, "")
	got := DBPath("proj")
	want := filepath.Join("proj", dataDirName, "history.db")
	if got != want {
		t.Fatalf("DBPath = %q, want %q", got, want)
	}
}

func TestProfilePath(t *testing.T) {
	got := ProfilePath("proj")
	want := filepath.Join("proj", dataDirName, "whoami.json")
	if got != want {
		t.Fatalf("ProfilePath = %q, want %q", got, want)
	}
}
