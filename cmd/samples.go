package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/samples"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Manage the embedded syntax example files",
}

var samplesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the embedded samples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, s := range samples.All() {
			fmt.Fprintf(out, "%-12s %-18s %s\n", s.Name, s.Language, s.File)
		}
		return nil
	},
}

var samplesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the samples into the project's examples directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dirFlag, _ := cmd.Flags().GetString("dir")

		root, cfg, err := loadProject()
		if err != nil {
			return err
		}
		dir := filepath.Join(root, cfg.SamplesDir)
		if dirFlag != "" {
			dir = dirFlag
		}
		paths, err := samples.Export(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range paths {
			fmt.Fprintf(out, "wrote %s\n", p)
		}
		return nil
	},
}

var samplesVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the exported samples against the embedded set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dirFlag, _ := cmd.Flags().GetString("dir")

		root, cfg, err := loadProject()
		if err != nil {
			return err
		}
		dir := filepath.Join(root, cfg.SamplesDir)
		if dirFlag != "" {
			dir = dirFlag
		}
		drifts, err := samples.Verify(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(drifts) == 0 {
			fmt.Fprintf(out, "%s matches the embedded set\n", dir)
			return nil
		}
		for _, d := range drifts {
			fmt.Fprintf(out, "%s: %s\n", d.File, d.Reason)
		}
		return fmt.Errorf("%d file(s) drifted from the embedded set", len(drifts))
	},
}

func init() {
	samplesExportCmd.Flags().String("dir", "", "Directory to export into (default: samples_dir from themr.yaml)")
	samplesVerifyCmd.Flags().String("dir", "", "Directory to verify (default: samples_dir from themr.yaml)")
	samplesCmd.AddCommand(samplesListCmd)
	samplesCmd.AddCommand(samplesExportCmd)
	samplesCmd.AddCommand(samplesVerifyCmd)
	rootCmd.AddCommand(samplesCmd)
}
