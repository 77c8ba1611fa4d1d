package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/changelog"
	"github.com/VoxDroid/themr/internal/gitrepo"
	"github.com/VoxDroid/themr/internal/manifest"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Draft a changelog section from commits since the last tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		since, _ := cmd.Flags().GetString("since")
		write, _ := cmd.Flags().GetBool("write")
		preview, _ := cmd.Flags().GetBool("preview")

		root, cfg, err := loadProject()
		if err != nil {
			return err
		}
		m, err := manifest.Load(cfg.ManifestPath(root))
		if err != nil {
			return err
		}

		runner := newRunner()
		if err := gitrepo.Available(runner); err != nil {
			return err
		}
		repo := gitrepo.New(runner, root)
		ref := since
		if ref == "" {
			ref = repo.LatestTag(cmd.Context())
		}
		subjects, err := repo.LogSince(cmd.Context(), ref)
		if err != nil {
			return err
		}

		section := changelog.Section(m.Version, time.Now(), subjects)
		out := cmd.OutOrStdout()

		if write {
			path := filepath.Join(root, changelog.DefaultFile)
			if err := changelog.Prepend(path, section); err != nil {
				return err
			}
			fmt.Fprintf(out, "updated %s\n", path)
			return nil
		}
		if preview {
			rendered, err := glamour.Render(section, "dark")
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return nil
		}
		fmt.Fprint(out, section)
		return nil
	},
}

func init() {
	changelogCmd.Flags().String("since", "", "Collect commits after this ref (default: latest tag)")
	changelogCmd.Flags().Bool("write", false, "Prepend the section to CHANGELOG.md")
	changelogCmd.Flags().Bool("preview", false, "Render the section with terminal styling")
	rootCmd.AddCommand(changelogCmd)
}
