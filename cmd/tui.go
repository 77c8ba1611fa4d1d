package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/cmd/tui/ui"
	"github.com/VoxDroid/themr/internal/tui/adapters"
	"github.com/VoxDroid/themr/internal/tui/model"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse syntax samples under the theme interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		override, _ := cmd.Flags().GetString("theme")

		root, cfg, err := loadProject()
		if err != nil {
			return err
		}
		themePath, err := resolveThemePath(root, cfg, override)
		if err != nil {
			return err
		}
		tp, err := adapters.NewThemeFile(themePath)
		if err != nil {
			return err
		}

		p := ui.NewProgram(model.New(adapters.EmbeddedSamples{}, tp))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	},
}

func init() {
	tuiCmd.Flags().String("theme", "", "Theme file to render with (default: first contributed theme)")
	rootCmd.AddCommand(tuiCmd)
}
