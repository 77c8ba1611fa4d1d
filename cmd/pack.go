package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/manifest"
	"github.com/VoxDroid/themr/internal/vsix"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Build the .vsix archive for the current version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		builtin, _ := cmd.Flags().GetBool("builtin")
		output, _ := cmd.Flags().GetString("output")

		root, cfg, err := loadProject()
		if err != nil {
			return err
		}
		m, err := manifest.Load(cfg.ManifestPath(root))
		if err != nil {
			return err
		}
		if err := m.Validate(); err != nil {
			return err
		}

		outDir := cfg.OutputDir
		if output != "" {
			outDir = output
		}
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(root, outDir)
		}

		var pkg vsix.Packager
		if builtin || cfg.Packager == config.PackagerBuiltin {
			pkg = vsix.BuiltinPacker{}
		} else {
			tool := vsix.NewVsceTool(newRunner(), cfg.VsceBin)
			if err := tool.Available(); err != nil {
				return err
			}
			pkg = tool
		}

		path, err := pkg.Package(cmd.Context(), root, m, outDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "packaged %s\n", path)
		return nil
	},
}

func init() {
	packCmd.Flags().Bool("builtin", false, "Use the built-in packer instead of vsce")
	packCmd.Flags().StringP("output", "o", "", "Directory the .vsix is written to")
	rootCmd.AddCommand(packCmd)
}
