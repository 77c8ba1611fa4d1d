package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/gitrepo"
	"github.com/VoxDroid/themr/internal/highlight"
	"github.com/VoxDroid/themr/internal/manifest"
	"github.com/VoxDroid/themr/internal/nameutil"
	"github.com/VoxDroid/themr/internal/samples"
	"github.com/VoxDroid/themr/internal/theme"
	"github.com/VoxDroid/themr/internal/vsix"
)

type finding struct {
	status string // "ok", "warn", "fail"
	text   string
}

// checkProject runs every release and theme health check and returns the
// findings in display order.
func checkProject(ctx context.Context, root string, cfg config.Config) []finding {
	var out []finding
	ok := func(format string, a ...interface{}) { out = append(out, finding{"ok", fmt.Sprintf(format, a...)}) }
	warn := func(format string, a ...interface{}) { out = append(out, finding{"warn", fmt.Sprintf(format, a...)}) }
	fail := func(format string, a ...interface{}) { out = append(out, finding{"fail", fmt.Sprintf(format, a...)}) }

	runner := newRunner()

	m, err := manifest.Load(cfg.ManifestPath(root))
	if err != nil {
		fail("manifest: %v", err)
		return out
	}
	if err := m.Validate(); err != nil {
		fail("manifest: %v", err)
	} else {
		ok("manifest %s valid (version %s)", cfg.Manifest, m.Version)
	}
	// Zero-width runes sneak past displayName validation when pasted from
	// a marketplace page; flag them before they reach a listing.
	if clean, changed := nameutil.SanitizeDisplayName(m.DisplayName); changed {
		warn("manifest displayName has invisible characters (sanitized: %q)", clean)
	}

	if err := gitrepo.Available(runner); err != nil {
		fail("git: %v", err)
	} else {
		repo := gitrepo.New(runner, root)
		if !repo.IsRepo(ctx) {
			fail("git: %s is not inside a work tree", root)
		} else if clean, err := repo.IsClean(ctx); err != nil {
			warn("git: %v", err)
		} else if !clean {
			warn("git: worktree has uncommitted changes")
		} else {
			ok("git worktree clean")
		}
	}

	if cfg.Packager == config.PackagerVsce {
		if err := vsix.NewVsceTool(runner, cfg.VsceBin).Available(); err != nil {
			warn("packager: %v (builtin packer still available via pack --builtin)", err)
		} else {
			ok("packager %s on PATH", cfg.VsceBin)
		}
	} else {
		ok("packager: builtin")
	}

	if len(m.Contributes.Themes) == 0 {
		fail("manifest contributes no themes")
	}
	for _, tc := range m.Contributes.Themes {
		if clean, changed := nameutil.SanitizeDisplayName(tc.Label); changed {
			warn("theme label %q has invisible characters (sanitized: %q)", tc.Label, clean)
		}
		path := filepath.Join(root, filepath.FromSlash(tc.Path))
		th, err := theme.Load(path)
		if err != nil {
			fail("theme %q: %v", tc.Label, err)
			continue
		}
		if err := th.Validate(); err != nil {
			fail("theme %q: %v", tc.Label, err)
			continue
		}
		ok("theme %q valid (%d colors, %d token rules)", tc.Label, len(th.Colors), len(th.TokenColors))
		if dups := th.DuplicateScopes(); len(dups) > 0 {
			warn("theme %q: scopes styled by more than one rule: %s", tc.Label, strings.Join(dups, ", "))
		}
		styled := 0
		cov := highlight.Coverage(th)
		for _, c := range cov {
			if c.Styled {
				styled++
			}
		}
		if styled == 0 {
			warn("theme %q styles none of the %d scopes the preview uses", tc.Label, len(cov))
		} else {
			ok("theme %q styles %d/%d preview scopes", tc.Label, styled, len(cov))
		}
	}

	dir := filepath.Join(root, cfg.SamplesDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		warn("samples: %s not exported (run: themr samples export)", cfg.SamplesDir)
	} else if drifts, err := samples.Verify(dir); err != nil {
		warn("samples: %v", err)
	} else if len(drifts) > 0 {
		for _, d := range drifts {
			warn("samples: %s %s", d.File, d.Reason)
		}
	} else {
		ok("samples in %s match the embedded set", cfg.SamplesDir)
	}

	return out
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check release preflight, manifest, theme and sample health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, cfg, err := loadProject()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		warns, fails := 0, 0
		for _, f := range checkProject(cmd.Context(), root, cfg) {
			fmt.Fprintf(out, "[%s] %s\n", f.status, f.text)
			switch f.status {
			case "warn":
				warns++
			case "fail":
				fails++
			}
		}
		fmt.Fprintf(out, "\n%d failure(s), %d warning(s)\n", fails, warns)
		if fails > 0 {
			return fmt.Errorf("check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
