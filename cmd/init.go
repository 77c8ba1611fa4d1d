package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/samples"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a themr.yaml with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		withSamples, _ := cmd.Flags().GetBool("samples")

		// init runs in fresh directories, so no manifest walk here.
		dir := flagChdir
		if dir == "" {
			dir = "."
		}
		path, err := config.Scaffold(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "wrote %s\n", path)

		if withSamples {
			paths, err := samples.Export(filepath.Join(dir, config.Default().SamplesDir))
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(out, "wrote %s\n", p)
			}
		}
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("samples", false, "Also export the embedded syntax samples")
	rootCmd.AddCommand(initCmd)
}
