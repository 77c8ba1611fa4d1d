package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the themr version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "themr %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
