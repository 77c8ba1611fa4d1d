package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/bump"
	"github.com/VoxDroid/themr/internal/manifest"
)

var bumpCmd = &cobra.Command{
	Use:   "bump <fix|patch|version>",
	Short: "Rewrite the manifest version without releasing",
	Long: "Increment one field of the manifest version in place: fix bumps patch\n" +
		"(1.2.3 -> 1.2.4), patch bumps minor (1.2.3 -> 1.3.0), version bumps\n" +
		"major (1.2.3 -> 2.0.0). No git, packaging or ledger activity.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := bump.ParseKind(args[0])
		if err != nil {
			return err
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		root, cfg, err := loadProject()
		if err != nil {
			return err
		}
		m, err := manifest.Load(cfg.ManifestPath(root))
		if err != nil {
			return err
		}
		old, next, err := bump.Next(m.Version, kind)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if dryRun {
			fmt.Fprintf(out, "%s -> %s (dry run, manifest unchanged)\n", old, next)
			return nil
		}
		if err := manifest.WriteVersion(cfg.ManifestPath(root), old.String(), next.String()); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s -> %s\n", old, next)
		return nil
	},
}

func init() {
	bumpCmd.Flags().BoolP("dry-run", "n", false, "Print the new version without writing it")
	rootCmd.AddCommand(bumpCmd)
}
