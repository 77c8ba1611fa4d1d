package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/VoxDroid/themr/internal/bump"
	"github.com/VoxDroid/themr/internal/db"
	"github.com/VoxDroid/themr/internal/history"
	"github.com/VoxDroid/themr/internal/notes"
	"github.com/VoxDroid/themr/internal/release"
	"github.com/VoxDroid/themr/internal/utils"
)

var releaseCmd = &cobra.Command{
	Use:   "release <fix|patch|version>",
	Short: "Bump the manifest version, commit, tag, push and package",
	Long: "Run the release pipeline: bump the manifest version field (fix bumps\n" +
		"patch, patch bumps minor, version bumps major), commit and tag, push to\n" +
		"the remote, package the .vsix, and record the release in the ledger.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := bump.ParseKind(args[0])
		if err != nil {
			return err
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		yes, _ := cmd.Flags().GetBool("yes")
		allowDirty, _ := cmd.Flags().GetBool("allow-dirty")
		noPush, _ := cmd.Flags().GetBool("no-push")
		noPackage, _ := cmd.Flags().GetBool("no-package")
		noteText, _ := cmd.Flags().GetString("notes")
		notesStdin, _ := cmd.Flags().GetBool("notes-stdin")
		notesEdit, _ := cmd.Flags().GetBool("notes-edit")

		root, cfg, err := loadProject()
		if err != nil {
			return err
		}

		notesSources := 0
		for _, set := range []bool{noteText != "", notesStdin, notesEdit} {
			if set {
				notesSources++
			}
		}
		if notesSources > 1 {
			return fmt.Errorf("--notes, --notes-stdin and --notes-edit are mutually exclusive")
		}
		if notesStdin {
			fmt.Fprintln(cmd.OutOrStdout(), "enter release notes, end with a line holding a single '.':")
			if noteText, err = notes.Read(cmd.InOrStdin()); err != nil {
				return err
			}
		}
		if notesEdit {
			if noteText, err = notes.Compose(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		pipe := &release.Pipeline{
			Root:   root,
			Config: cfg,
			Runner: newRunner(),
			Out:    out,
		}

		if !dryRun {
			conn, err := db.Open(root)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()
			pipe.Ledger = history.NewRepository(conn)
		}

		opts := release.Options{
			Kind:       kind,
			DryRun:     dryRun,
			AllowDirty: allowDirty,
			NoPush:     noPush,
			NoPackage:  noPackage,
			Notes:      noteText,
			Spinner:    !dryRun && !flagVerbose && term.IsTerminal(int(os.Stdout.Fd())),
		}

		if !dryRun && !yes {
			plan, err := pipe.MakePlan(kind)
			if err != nil {
				return err
			}
			prompt := fmt.Sprintf("release %s -> %s (tag %s, push to %s)?", plan.OldVersion, plan.NewVersion, plan.Tag, cfg.Remote)
			if noPush {
				prompt = fmt.Sprintf("release %s -> %s (tag %s, no push)?", plan.OldVersion, plan.NewVersion, plan.Tag)
			}
			if !utils.Confirm(prompt) {
				fmt.Fprintln(out, "aborted (use --yes to skip confirmation)")
				return nil
			}
		}

		res, err := pipe.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if dryRun {
			fmt.Fprintf(out, "dry run complete: %s -> %s (nothing changed)\n", res.OldVersion, res.NewVersion)
			return nil
		}
		fmt.Fprintf(out, "released %s (tag %s)\n", res.NewVersion, res.Tag)
		if res.Artifact != "" {
			fmt.Fprintf(out, "packaged %s\n", res.Artifact)
		}
		return nil
	},
}

func init() {
	releaseCmd.Flags().BoolP("dry-run", "n", false, "Print every step without performing any")
	releaseCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	releaseCmd.Flags().Bool("allow-dirty", false, "Release from a worktree with uncommitted changes")
	releaseCmd.Flags().Bool("no-push", false, "Skip pushing the branch and tags")
	releaseCmd.Flags().Bool("no-package", false, "Skip building the .vsix")
	releaseCmd.Flags().String("notes", "", "Release notes stored in the ledger")
	releaseCmd.Flags().Bool("notes-stdin", false, "Read release notes from stdin")
	releaseCmd.Flags().Bool("notes-edit", false, "Compose release notes in $EDITOR")
	rootCmd.AddCommand(releaseCmd)
}
