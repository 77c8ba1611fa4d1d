// Package release drives the release pipeline: bump the manifest version,
// commit and tag, push, package the .vsix, and record the result in the
// ledger. The pipeline is a linear sequence; a failing step aborts the run
// and the completed steps are reported so the operator can recover by hand.
// There is no automated rollback.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/VoxDroid/themr/internal/bump"
	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/executor"
	"github.com/VoxDroid/themr/internal/gitrepo"
	"github.com/VoxDroid/themr/internal/history"
	"github.com/VoxDroid/themr/internal/hooks"
	"github.com/VoxDroid/themr/internal/log"
	"github.com/VoxDroid/themr/internal/manifest"
	"github.com/VoxDroid/themr/internal/user"
	"github.com/VoxDroid/themr/internal/vsix"
)

// Preflight failures. Typed so `themr check` can classify them.
var (
	ErrGitMissing      = errors.New("git not found in PATH")
	ErrNotRepo         = errors.New("not a git repository")
	ErrDirtyWorktree   = errors.New("worktree has uncommitted changes (commit or pass --allow-dirty)")
	ErrPackagerMissing = errors.New("packaging tool not found")
	ErrTagExists       = errors.New("tag already exists")
)

// Options select the optional behavior of one release run.
type Options struct {
	Kind       bump.Kind
	DryRun     bool // print every step, perform none
	AllowDirty bool
	NoPush     bool
	NoPackage  bool
	Notes      string // attached to the ledger row
	Spinner    bool   // animate the slow steps (push, package)
}

// Plan describes what a release run would do, computed before any step.
type Plan struct {
	OldVersion    string
	NewVersion    string
	Tag           string
	CommitMessage string
}

// Result reports a completed (or dry-run) release.
type Result struct {
	Plan
	Branch     string
	CommitHash string
	Artifact   string
	Steps      []string // human-readable steps that ran
}

// StepError wraps a mid-pipeline failure with the steps that already ran.
type StepError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *StepError) Error() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("step %q: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %q: %v (already done: %s)", e.Step, e.Err, strings.Join(e.Completed, ", "))
}

func (e *StepError) Unwrap() error { return e.Err }

// Pipeline wires the collaborators of the release flow. Root, Config and
// Runner are required; a nil Ledger skips history recording.
type Pipeline struct {
	Root   string
	Config config.Config
	Runner executor.Runner
	Ledger *history.Repository
	Out    io.Writer // step reporting; nil discards
}

func (p *Pipeline) out() io.Writer {
	if p.Out == nil {
		return io.Discard
	}
	return p.Out
}

func (p *Pipeline) packager() vsix.Packager {
	if p.Config.Packager == config.PackagerBuiltin {
		return vsix.BuiltinPacker{}
	}
	return vsix.NewVsceTool(p.Runner, p.Config.VsceBin)
}

// Preflight runs the abort-with-message checks of the release contract:
// manifest present and parseable, version a plain x.y.z, git available,
// inside a work tree, packager on PATH when packaging is requested, and a
// clean worktree unless overridden. The first failure is returned.
func (p *Pipeline) Preflight(ctx context.Context, opts Options) error {
	m, err := manifest.Load(p.Config.ManifestPath(p.Root))
	if err != nil {
		return err
	}
	if m.Version == "" {
		return fmt.Errorf("%s: %w", p.Config.Manifest, manifest.ErrNoVersion)
	}
	if _, err := bump.Parse(m.Version); err != nil {
		return err
	}
	if err := gitrepo.Available(p.Runner); err != nil {
		return fmt.Errorf("%w: %v", ErrGitMissing, err)
	}
	repo := gitrepo.New(p.Runner, p.Root)
	if !repo.IsRepo(ctx) {
		return fmt.Errorf("%s: %w", p.Root, ErrNotRepo)
	}
	if !opts.NoPackage && p.Config.Packager == config.PackagerVsce {
		if err := vsix.NewVsceTool(p.Runner, p.Config.VsceBin).Available(); err != nil {
			return fmt.Errorf("%w: %v", ErrPackagerMissing, err)
		}
	}
	if !opts.AllowDirty {
		clean, err := repo.IsClean(ctx)
		if err != nil {
			return err
		}
		if !clean {
			return ErrDirtyWorktree
		}
	}
	return nil
}

// MakePlan computes the version transition, tag and commit message for a
// bump of the given kind, without touching anything.
func (p *Pipeline) MakePlan(kind bump.Kind) (Plan, error) {
	m, err := manifest.Load(p.Config.ManifestPath(p.Root))
	if err != nil {
		return Plan{}, err
	}
	old, next, err := bump.Next(m.Version, kind)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{
		OldVersion: old.String(),
		NewVersion: next.String(),
		Tag:        p.Config.TagPrefix + next.String(),
	}
	plan.CommitMessage = strings.ReplaceAll(p.Config.CommitTemplate, "{version}", plan.NewVersion)
	return plan, nil
}

// Run executes the pipeline. On a step failure the returned error is a
// *StepError carrying the steps that already completed.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	logger := log.WithComponent("release")

	if err := p.Preflight(ctx, opts); err != nil {
		return Result{}, err
	}
	plan, err := p.MakePlan(opts.Kind)
	if err != nil {
		return Result{}, err
	}

	repo := gitrepo.New(p.Runner, p.Root)
	if exists, err := repo.TagExists(ctx, plan.Tag); err == nil && exists {
		return Result{}, fmt.Errorf("%s: %w", plan.Tag, ErrTagExists)
	}

	res := Result{Plan: plan}
	if b, err := repo.CurrentBranch(ctx); err == nil {
		res.Branch = b
	}

	step := func(name string, fn func() error) error {
		if opts.DryRun {
			fmt.Fprintf(p.out(), "dry-run: %s\n", name)
			return nil
		}
		fmt.Fprintf(p.out(), "%s\n", name)
		logger.Debug().Str("step", name).Msg("running")
		if err := fn(); err != nil {
			return &StepError{Step: name, Completed: res.Steps, Err: err}
		}
		res.Steps = append(res.Steps, name)
		return nil
	}

	env := hooks.Env{OldVersion: plan.OldVersion, NewVersion: plan.NewVersion, Tag: plan.Tag}
	hookRunner := hooks.New(p.Runner, p.Root, p.out(), p.out())

	if len(p.Config.Hooks.PreRelease) > 0 {
		if err := step(fmt.Sprintf("run %d pre-release hook(s)", len(p.Config.Hooks.PreRelease)), func() error {
			return hookRunner.RunAll(ctx, "pre_release", p.Config.Hooks.PreRelease, env)
		}); err != nil {
			return res, err
		}
	}

	if err := step(fmt.Sprintf("bump %s %s -> %s", p.Config.Manifest, plan.OldVersion, plan.NewVersion), func() error {
		return manifest.WriteVersion(p.Config.ManifestPath(p.Root), plan.OldVersion, plan.NewVersion)
	}); err != nil {
		return res, err
	}

	// Hooks that regenerate project files declare them via hooks.stage so
	// the release commit picks them up.
	staged := append([]string{p.Config.Manifest}, p.Config.Hooks.Stage...)
	if err := step("git add "+strings.Join(staged, " "), func() error {
		return repo.Add(ctx, staged...)
	}); err != nil {
		return res, err
	}

	if err := step(fmt.Sprintf("git commit -m %q", plan.CommitMessage), func() error {
		if err := repo.Commit(ctx, plan.CommitMessage); err != nil {
			return err
		}
		if hash, err := repo.HeadShort(ctx); err == nil {
			res.CommitHash = hash
		}
		return nil
	}); err != nil {
		return res, err
	}

	if err := step("git tag "+plan.Tag, func() error {
		return repo.Tag(ctx, plan.Tag)
	}); err != nil {
		return res, err
	}

	if !opts.NoPush {
		if err := step("git push "+p.Config.Remote+" (with tags)", func() error {
			return p.spin(opts, "pushing "+p.Config.Remote, func() error {
				if err := repo.Push(ctx, p.Config.Remote); err != nil {
					return err
				}
				return repo.PushTags(ctx, p.Config.Remote)
			})
		}); err != nil {
			return res, err
		}
	}

	if !opts.NoPackage {
		pkg := p.packager()
		if err := step("package .vsix via "+pkg.Name(), func() error {
			return p.spin(opts, "packaging", func() error {
				m, err := manifest.Load(p.Config.ManifestPath(p.Root))
				if err != nil {
					return err
				}
				outDir := p.Config.OutputDir
				if !filepath.IsAbs(outDir) {
					outDir = filepath.Join(p.Root, outDir)
				}
				out, err := pkg.Package(ctx, p.Root, m, outDir)
				if err != nil {
					return err
				}
				res.Artifact = out
				return nil
			})
		}); err != nil {
			return res, err
		}
	}

	if len(p.Config.Hooks.PostRelease) > 0 {
		if err := step(fmt.Sprintf("run %d post-release hook(s)", len(p.Config.Hooks.PostRelease)), func() error {
			return hookRunner.RunAll(ctx, "post_release", p.Config.Hooks.PostRelease, env)
		}); err != nil {
			return res, err
		}
	}

	if p.Ledger != nil {
		if err := step("record release in ledger", func() error {
			author, err := user.Resolve(ctx, p.Root, repo)
			if err != nil {
				return err
			}
			_, err = p.Ledger.Record(history.Entry{
				OldVersion:  plan.OldVersion,
				NewVersion:  plan.NewVersion,
				BumpKind:    string(opts.Kind),
				Tag:         plan.Tag,
				Branch:      res.Branch,
				CommitHash:  res.CommitHash,
				Packager:    p.packagerName(opts),
				Artifact:    res.Artifact,
				AuthorName:  author.Name,
				AuthorEmail: author.Email,
				Notes:       opts.Notes,
			})
			return err
		}); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (p *Pipeline) packagerName(opts Options) string {
	if opts.NoPackage {
		return ""
	}
	return p.packager().Name()
}

// spin runs fn behind a terminal spinner when the run asked for one.
func (p *Pipeline) spin(opts Options, suffix string, fn func() error) error {
	if !opts.Spinner {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	return fn()
}
