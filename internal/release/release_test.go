package release

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VoxDroid/themr/internal/bump"
	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/db"
	"github.com/VoxDroid/themr/internal/executor"
	"github.com/VoxDroid/themr/internal/history"
	"github.com/VoxDroid/themr/internal/manifest"
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
    { "scope": "comment", "settings": { "foreground": "#5a5a72", "fontStyle": "italic" } }
  ]
}
`

// fakeRunner scripts command responses by joined argv and records every
// invocation in order.
type fakeRunner struct {
	out     map[string]string
	fail    map[string]error
	missing map[string]bool
	calls   []string
}

func newFake() *fakeRunner {
	f := &fakeRunner{out: map[string]string{}, fail: map[string]error{}, missing: map[string]bool{}}
	f.out["git rev-parse --is-inside-work-tree"] = "true"
	f.out["git status --porcelain"] = ""
	f.out["git rev-parse --abbrev-ref HEAD"] = "main"
	f.out["git rev-parse --short HEAD"] = "abc1234"
	return f
}

func (f *fakeRunner) Run(_ context.Context, cmd executor.Command) (executor.Result, error) {
	key := cmd.Name + " " + strings.Join(cmd.Args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.fail[key]; ok {
		return executor.Result{}, err
	}
	return executor.Result{Stdout: f.out[key]}, nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

func (f *fakeRunner) called(key string) bool {
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "themes"), 0o755); err != nil {
		t.Fatalf("mkdir themes: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(testManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "themes", "mallard-color-theme.json"), []byte(testTheme), 0o644); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	return root
}

func builtinConfig() config.Config {
	cfg := config.Default()
	cfg.Packager = config.PackagerBuiltin
	return cfg
}

func openLedger(t *testing.T, root string) *history.Repository {
	t.Helper()
	d, err := db.Open(root)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return history.NewRepository(d)
}

func TestRunHappyPath(t *testing.T) {
	root := newProject(t)
	f := newFake()
	ledger := openLedger(t, root)
	var out bytes.Buffer
	p := &Pipeline{Root: root, Config: builtinConfig(), Runner: f, Ledger: ledger, Out: &out}

	res, err := p.Run(context.Background(), Options{Kind: bump.Fix})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.OldVersion != "1.2.3" || res.NewVersion != "1.2.4" {
		t.Fatalf("unexpected versions: %s -> %s", res.OldVersion, res.NewVersion)
	}
	if res.Tag != "v1.2.4" {
		t.Fatalf("unexpected tag: %s", res.Tag)
	}
	if res.Branch != "main" || res.CommitHash != "abc1234" {
		t.Fatalf("unexpected branch/hash: %s %s", res.Branch, res.CommitHash)
	}

	m, err := manifest.Load(filepath.Join(root, "package.json"))
	if err != nil {
		t.Fatalf("reload manifest: %v", err)
	}
	if m.Version != "1.2.4" {
		t.Fatalf("manifest not bumped: %s", m.Version)
	}

	for _, want := range []string{
		"git add -- package.json",
		"git commit -m 1.2.4",
		"git tag v1.2.4",
		"git push origin",
		"git push origin --tags",
	} {
		if !f.called(want) {
			t.Fatalf("missing git call %q in %v", want, f.calls)
		}
	}

	if res.Artifact == "" {
		t.Fatal("expected a packaged artifact")
	}
	if _, err := os.Stat(res.Artifact); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}

	rel, err := ledger.Latest()
	if err != nil {
		t.Fatalf("ledger latest: %v", err)
	}
	if rel.NewVersion != "1.2.4" || rel.BumpKind != "fix" {
		t.Fatalf("unexpected ledger row: %+v", rel)
	}
	if rel.Tag.String != "v1.2.4" {
		t.Fatalf("unexpected ledger tag: %q", rel.Tag.String)
	}
}

func TestDryRunPerformsNothing(t *testing.T) {
	root := newProject(t)
	f := newFake()
	var out bytes.Buffer
	p := &Pipeline{Root: root, Config: builtinConfig(), Runner: f, Out: &out}

	if _, err := p.Run(context.Background(), Options{Kind: bump.Version, DryRun: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, c := range f.calls {
		if strings.HasPrefix(c, "git add") || strings.HasPrefix(c, "git commit") ||
			strings.HasPrefix(c, "git tag v") || strings.HasPrefix(c, "git push") {
			t.Fatalf("dry run executed %q", c)
		}
	}
	m, _ := manifest.Load(filepath.Join(root, "package.json"))
	if m.Version != "1.2.3" {
		t.Fatalf("dry run changed the manifest: %s", m.Version)
	}
	if !strings.Contains(out.String(), "dry-run: git tag v2.0.0") {
		t.Fatalf("expected dry-run step report, got:\n%s", out.String())
	}
}

func TestPreflightDirtyWorktree(t *testing.T) {
	root := newProject(t)
	f := newFake()
	f.out["git status --porcelain"] = " M package.json"
	p := &Pipeline{Root: root, Config: builtinConfig(), Runner: f}

	_, err := p.Run(context.Background(), Options{Kind: bump.Fix})
	if !errors.Is(err, ErrDirtyWorktree) {
		t.Fatalf("expected ErrDirtyWorktree, got %v", err)
	}

	if _, err := p.Run(context.Background(), Options{Kind: bump.Fix, AllowDirty: true, NoPush: true, NoPackage: true}); err != nil {
		t.Fatalf("allow-dirty run: %v", err)
	}
}

func TestPreflightNotRepo(t *testing.T) {
	root := newProject(t)
	f := newFake()
	f.out["git rev-parse --is-inside-work-tree"] = ""
	f.fail["git rev-parse --is-inside-work-tree"] = errors.New("fatal: not a git repository")
	p := &Pipeline{Root: root, Config: builtinConfig(), Runner: f}

	_, err := p.Run(context.Background(), Options{Kind: bump.Fix})
	if !errors.Is(err, ErrNotRepo) {
		t.Fatalf("expected ErrNotRepo, got %v", err)
	}
}

func TestPreflightPackagerMissing(t *testing.T) {
	root := newProject(t)
	f := newFake()
	f.missing["vsce"] = true
	p := &Pipeline{Root: root, Config: config.Default(), Runner: f}

	_, err := p.Run(context.Background(), Options{Kind: bump.Fix})
	if !errors.Is(err, ErrPackagerMissing) {
		t.Fatalf("expected ErrPackagerMissing, got %v", err)
	}

	// Not needed when packaging is skipped.
	if err := p.Preflight(context.Background(), Options{Kind: bump.Fix, NoPackage: true}); err != nil {
		t.Fatalf("preflight with --no-package: %v", err)
	}
}

func TestPreflightMissingManifest(t *testing.T) {
	root := t.TempDir()
	p := &Pipeline{Root: root, Config: builtinConfig(), Runner: newFake()}
	if _, err := p.Run(context.Background(), Options{Kind: bump.Fix}); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestTagAlreadyExists(t *testing.T) {
	root := newProject(t)
	f := newFake()
	f.out["git tag --list v1.2.4"] = "v1.2.4"
	p := &Pipeline{Root: root, Config: builtinConfig(), Runner: f}

	_, err := p.Run(context.Background(), Options{Kind: bump.Fix})
	if !errors.Is(err, ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}
}

func TestStepFailureReportsCompletedSteps(t *testing.T) {
	root := newProject(t)
	f := newFake()
	f.fail["git push origin"] = errors.New("remote unreachable")
	p := &Pipeline{Root: root, Config: builtinConfig(), Runner: f}

	_, err := p.Run(context.Background(), Options{Kind: bump.Fix})
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %v", err)
	}
	if !strings.Contains(stepErr.Step, "git push") {
		t.Fatalf("unexpected failing step: %s", stepErr.Step)
	}
	found := false
	for _, done := range stepErr.Completed {
		if strings.Contains(done, "git tag") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected completed tag step in %v", stepErr.Completed)
	}
	// The bump stays applied: recovery is manual.
	m, _ := manifest.Load(filepath.Join(root, "package.json"))
	if m.Version != "1.2.4" {
		t.Fatalf("expected bumped manifest after push failure, got %s", m.Version)
	}
}

func TestHooksRunAroundTheRelease(t *testing.T) {
	root := newProject(t)
	f := newFake()
	cfg := builtinConfig()
	cfg.Hooks.PreRelease = []string{"make lint"}
	cfg.Hooks.PostRelease = []string{"make announce"}
	p := &Pipeline{Root: root, Config: cfg, Runner: f}

	if _, err := p.Run(context.Background(), Options{Kind: bump.Patch, NoPush: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !f.called("make lint") || !f.called("make announce") {
		t.Fatalf("hooks not run: %v", f.calls)
	}
}

func TestStagedFilesJoinTheReleaseCommit(t *testing.T) {
	root := newProject(t)
	f := newFake()
	cfg := builtinConfig()
	cfg.Hooks.PreRelease = []string{"make changelog"}
	cfg.Hooks.Stage = []string{"CHANGELOG.md", "docs/versions.md"}
	p := &Pipeline{Root: root, Config: cfg, Runner: f}

	if _, err := p.Run(context.Background(), Options{Kind: bump.Fix, NoPush: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !f.called("git add -- package.json CHANGELOG.md docs/versions.md") {
		t.Fatalf("hook-staged files not added: %v", f.calls)
	}
}

func TestPreReleaseHookFailureAbortsBeforeBump(t *testing.T) {
	root := newProject(t)
	f := newFake()
	f.fail["make lint"] = errors.New("exit status 2")
	cfg := builtinConfig()
	cfg.Hooks.PreRelease = []string{"make lint"}
	p := &Pipeline{Root: root, Config: cfg, Runner: f}

	if _, err := p.Run(context.Background(), Options{Kind: bump.Fix}); err == nil {
		t.Fatal("expected hook failure")
	}
	m, _ := manifest.Load(filepath.Join(root, "package.json"))
	if m.Version != "1.2.3" {
		t.Fatalf("manifest bumped despite hook failure: %s", m.Version)
	}
}

func TestMakePlanUsesConfigTemplate(t *testing.T) {
	root := newProject(t)
	cfg := builtinConfig()
	cfg.TagPrefix = "release-"
	cfg.CommitTemplate = "release {version}"
	p := &Pipeline{Root: root, Config: cfg, Runner: newFake()}

	plan, err := p.MakePlan(bump.Patch)
	if err != nil {
		t.Fatalf("MakePlan: %v", err)
	}
	if plan.NewVersion != "1.3.0" || plan.Tag != "release-1.3.0" || plan.CommitMessage != "release 1.3.0" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
}
