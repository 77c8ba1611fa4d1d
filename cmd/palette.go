package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/manifest"
	"github.com/VoxDroid/themr/internal/theme"
)

// resolveThemePath returns the theme file to operate on: the explicit
// override when given, otherwise the manifest's first contributed theme.
func resolveThemePath(root string, cfg config.Config, override string) (string, error) {
	if override != "" {
		if filepath.IsAbs(override) {
			return override, nil
		}
		return filepath.Join(root, override), nil
	}
	m, err := manifest.Load(cfg.ManifestPath(root))
	if err != nil {
		return "", err
	}
	if len(m.Contributes.Themes) == 0 {
		return "", fmt.Errorf("manifest contributes no themes (pass --theme)")
	}
	return filepath.Join(root, filepath.FromSlash(m.Contributes.Themes[0].Path)), nil
}

func swatch(hex string) string {
	if hex == "" {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
}

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Show the theme's workbench colors and token rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		override, _ := cmd.Flags().GetString("theme")

		root, cfg, err := loadProject()
		if err != nil {
			return err
		}
		path, err := resolveThemePath(root, cfg, override)
		if err != nil {
			return err
		}
		th, err := theme.Load(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n\n", th.Name, th.Type)

		colors := table.NewWriter()
		colors.SetOutputMirror(out)
		colors.SetStyle(table.StyleLight)
		colors.AppendHeader(table.Row{"Workbench Color", "Hex", ""})
		for _, entry := range th.Palette() {
			colors.AppendRow(table.Row{entry.Key, entry.Value, swatch(entry.Value)})
		}
		colors.Render()

		fmt.Fprintln(out)

		tokens := table.NewWriter()
		tokens.SetOutputMirror(out)
		tokens.SetStyle(table.StyleLight)
		tokens.AppendHeader(table.Row{"Token Rule", "Scopes", "Foreground", "Style", ""})
		for _, r := range th.TokenColors {
			tokens.AppendRow(table.Row{
				r.Name,
				strings.Join(r.Scope, ", "),
				r.Settings.Foreground,
				r.Settings.FontStyle,
				swatch(r.Settings.Foreground),
			})
		}
		tokens.Render()
		return nil
	},
}

func init() {
	paletteCmd.Flags().String("theme", "", "Theme file to inspect (default: first contributed theme)")
	rootCmd.AddCommand(paletteCmd)
}
