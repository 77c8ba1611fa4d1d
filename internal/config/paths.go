package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// dataDirName is the project-local directory holding themr state (release
// history database, stored author identity).
const dataDirName = ".themr"

// EnvThemrDB overrides the history database location when set. Used by
// tests and by CI jobs that keep the ledger outside the worktree.
const EnvThemrDB = "THEMR_DB"

// FindProjectRoot walks upward from start until it reaches a directory
// containing an extension manifest (package.json) or a themr.yaml. It
// returns the absolute directory path.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range []string{FileName, "package.json"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no extension manifest or %s found (searched from %s upward)", FileName, start)
		}
		dir = parent
	}
}

// DataDir returns the project-local directory used to store themr data.
func DataDir(root string) string {
	return filepath.Join(root, dataDirName)
}

// EnsureDataDir creates the project data directory if needed and returns it.
func EnsureDataDir(root string) (string, error) {
	d := DataDir(root)
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return d, nil
}

// DBPath returns the full path to the release history database file.
// THEMR_DB takes precedence when set.
func DBPath(root string) string {
	if p := os.Getenv(EnvThemrDB); p != "" {
		return p
	}
	return filepath.Join(DataDir(root), "history.db")
}

// ProfilePath returns the path of the stored author identity file.
func ProfilePath(root string) string {
	return filepath.Join(DataDir(root), "whoami.json")
}

// UserDataDir returns a per-user themr directory in the home directory.
// Only the self-install metadata lives here; project state stays in the
// project's data dir.
func UserDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dataDirName), nil
}
