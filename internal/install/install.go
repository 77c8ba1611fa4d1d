// Package install copies the running themr binary into a per-user or
// system bin directory and tracks enough metadata to undo it. PATH is
// never edited; the installer prints the line to add instead.
package install

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/VoxDroid/themr/internal/config"
)

// Options controls install behavior.
type Options struct {
	System bool   // install into the system bin instead of the user bin
	Path   string // explicit target directory, overrides System
	From   string // source binary; empty means the running executable
	DryRun bool
}

func binName() string {
	if runtime.GOOS == "windows" {
		return "themr.exe"
	}
	return "themr"
}

// DefaultUserBin returns the per-user bin directory.
func DefaultUserBin() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".themr", "bin")
}

func systemBin() string {
	if v := os.Getenv("THEMR_TEST_SYSTEM_BIN"); v != "" {
		return v
	}
	if runtime.GOOS == "windows" {
		return `C:\Program Files\themr`
	}
	return "/usr/local/bin"
}

func targetDir(opts Options) string {
	if opts.Path != "" {
		return opts.Path
	}
	if opts.System {
		return systemBin()
	}
	return DefaultUserBin()
}

// PlanInstall returns the human-readable actions an install would perform
// and the target binary path.
func PlanInstall(opts Options) ([]string, string, error) {
	src := opts.From
	if src == "" {
		ex, err := os.Executable()
		if err != nil {
			return nil, "", fmt.Errorf("determine current executable: %w", err)
		}
		src = ex
	}
	dir := targetDir(opts)
	target := filepath.Join(dir, binName())

	actions := []string{fmt.Sprintf("ensure directory exists: %s", dir)}
	if src == target {
		actions = append(actions, "no-op: source and destination are identical")
		return actions, target, nil
	}
	actions = append(actions, fmt.Sprintf("copy %s -> %s", src, target))
	if runtime.GOOS != "windows" {
		actions = append(actions, fmt.Sprintf("set executable bit on %s", target))
	}
	if !ContainsPath(os.Getenv("PATH"), dir) {
		actions = append(actions, fmt.Sprintf("add %s to PATH (e.g. export PATH=%q:$PATH in your shell rc)", dir, dir))
	}
	return actions, target, nil
}

// ContainsPath reports whether dir appears in the PATH-style list pathEnv.
func ContainsPath(pathEnv, dir string) bool {
	if pathEnv == "" || dir == "" {
		return false
	}
	want := filepath.Clean(strings.TrimSpace(dir))
	for _, p := range filepath.SplitList(pathEnv) {
		got := filepath.Clean(strings.TrimSpace(p))
		if runtime.GOOS == "windows" {
			if strings.EqualFold(got, want) {
				return true
			}
		} else if got == want {
			return true
		}
	}
	return false
}

// metadata records what an install did so uninstall can reverse it.
type metadata struct {
	TargetPath  string    `json:"target_path"`
	InstalledAt time.Time `json:"installed_at"`
}

func metadataPath() (string, error) {
	d, err := config.UserDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", fmt.Errorf("create user data dir: %w", err)
	}
	return filepath.Join(d, "install_metadata.json"), nil
}

func saveMetadata(target string) error {
	p, err := metadataPath()
	if err != nil {
		return err
	}
	b, _ := json.MarshalIndent(metadata{TargetPath: target, InstalledAt: time.Now()}, "", "  ")
	return os.WriteFile(p, b, 0o600)
}

func loadMetadata() (*metadata, error) {
	p, err := metadataPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var m metadata
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ExecuteInstall performs the planned install and returns the actions. A
// dry run returns the plan without touching anything.
func ExecuteInstall(opts Options) ([]string, error) {
	actions, target, err := PlanInstall(opts)
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		return actions, nil
	}

	src := opts.From
	if src == "" {
		if src, err = os.Executable(); err != nil {
			return nil, fmt.Errorf("determine current executable: %w", err)
		}
	} else if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("source binary: %w", err)
	}

	if src != target {
		if err := copyExecutable(src, target); err != nil {
			return nil, err
		}
	}
	if err := saveMetadata(target); err != nil {
		return nil, fmt.Errorf("save metadata: %w", err)
	}
	return actions, nil
}

// copyExecutable writes src to dst through a temp file in the destination
// directory, then renames it into place. The executable bit is set before
// the rename on Unix.
func copyExecutable(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create target dir: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".themr_install_*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("copy binary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpName, 0o755); err != nil {
			return fmt.Errorf("set exec bit: %w", err)
		}
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("install binary: %w", err)
	}
	return nil
}

// PlanUninstall lists what an uninstall would remove.
func PlanUninstall() ([]string, error) {
	m, err := loadMetadata()
	if err != nil {
		if os.IsNotExist(err) {
			return []string{"no install metadata found; nothing to remove"}, nil
		}
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return []string{
		fmt.Sprintf("remove %s", m.TargetPath),
		"remove install metadata",
	}, nil
}

// Uninstall removes the installed binary and the metadata file. Actions
// are returned for display; a missing target is reported, not an error.
func Uninstall() ([]string, error) {
	m, err := loadMetadata()
	if err != nil {
		if os.IsNotExist(err) {
			return []string{"no install metadata found; nothing to remove"}, nil
		}
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	var actions []string
	if _, err := os.Stat(m.TargetPath); err == nil {
		if err := os.Remove(m.TargetPath); err != nil {
			return actions, fmt.Errorf("remove %s: %w", m.TargetPath, err)
		}
		actions = append(actions, fmt.Sprintf("removed %s", m.TargetPath))
		// Drop the bin dir too when it is ours and now empty.
		parent := filepath.Dir(m.TargetPath)
		if parent == DefaultUserBin() {
			if err := os.Remove(parent); err == nil {
				actions = append(actions, fmt.Sprintf("removed empty directory %s", parent))
			}
		}
	} else {
		actions = append(actions, fmt.Sprintf("target %s not found; skipping", m.TargetPath))
	}

	p, err := metadataPath()
	if err == nil {
		if err := os.Remove(p); err == nil {
			actions = append(actions, "removed install metadata")
		}
	}
	return actions, nil
}

// Status reports where themr binaries are found and whether their
// directories are on PATH.
type Status struct {
	UserPath        string
	SystemPath      string
	UserInstalled   bool
	SystemInstalled bool
	UserOnPath      bool
	SystemOnPath    bool
	MetadataFound   bool
}

// GetStatus inspects the user and system install locations.
func GetStatus() (*Status, error) {
	st := &Status{
		UserPath:   filepath.Join(DefaultUserBin(), binName()),
		SystemPath: filepath.Join(systemBin(), binName()),
	}
	if _, err := os.Stat(st.UserPath); err == nil {
		st.UserInstalled = true
	}
	if _, err := os.Stat(st.SystemPath); err == nil {
		st.SystemInstalled = true
	}
	pathEnv := os.Getenv("PATH")
	st.UserOnPath = ContainsPath(pathEnv, filepath.Dir(st.UserPath))
	st.SystemOnPath = ContainsPath(pathEnv, filepath.Dir(st.SystemPath))
	if p, err := metadataPath(); err == nil {
		if _, err := os.Stat(p); err == nil {
			st.MetadataFound = true
		}
	}
	// A binary resolved through PATH counts as installed even from a
	// custom directory.
	if lp, err := exec.LookPath(binName()); err == nil {
		clean := filepath.Clean(lp)
		if clean == filepath.Clean(st.UserPath) {
			st.UserInstalled, st.UserOnPath = true, true
		}
		if clean == filepath.Clean(st.SystemPath) {
			st.SystemInstalled, st.SystemOnPath = true, true
		}
	}
	return st, nil
}
