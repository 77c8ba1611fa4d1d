package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/install"
	"github.com/VoxDroid/themr/internal/utils"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Copy the themr binary into a bin directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		system, _ := cmd.Flags().GetBool("system")
		path, _ := cmd.Flags().GetString("path")
		from, _ := cmd.Flags().GetString("from")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		yes, _ := cmd.Flags().GetBool("yes")

		opts := install.Options{System: system, Path: path, From: from, DryRun: dryRun}
		out := cmd.OutOrStdout()

		if !dryRun && !yes {
			plan, target, err := install.PlanInstall(opts)
			if err != nil {
				return err
			}
			for _, a := range plan {
				fmt.Fprintf(out, "  %s\n", a)
			}
			if !utils.Confirm(fmt.Sprintf("install to %s?", target)) {
				fmt.Fprintln(out, "aborted")
				return nil
			}
		}

		actions, err := install.ExecuteInstall(opts)
		if err != nil {
			return err
		}
		for _, a := range actions {
			fmt.Fprintf(out, "  %s\n", a)
		}
		if dryRun {
			fmt.Fprintln(out, "dry run; nothing installed")
		} else {
			fmt.Fprintln(out, "installed")
		}
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the installed themr binary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		yes, _ := cmd.Flags().GetBool("yes")

		out := cmd.OutOrStdout()
		plan, err := install.PlanUninstall()
		if err != nil {
			return err
		}
		if dryRun {
			for _, a := range plan {
				fmt.Fprintf(out, "  %s\n", a)
			}
			fmt.Fprintln(out, "dry run; nothing removed")
			return nil
		}
		if !yes {
			for _, a := range plan {
				fmt.Fprintf(out, "  %s\n", a)
			}
			if !utils.Confirm("proceed with uninstall?") {
				fmt.Fprintln(out, "aborted")
				return nil
			}
		}

		actions, err := install.Uninstall()
		if err != nil {
			return err
		}
		for _, a := range actions {
			fmt.Fprintf(out, "  %s\n", a)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where themr is installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := install.GetStatus()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report := func(label, path string, installed, onPath bool) {
			mark := "absent"
			if installed {
				mark = "installed"
			}
			fmt.Fprintf(out, "%-7s %-10s %s", label, mark, path)
			if installed && !onPath {
				fmt.Fprint(out, " (directory not on PATH)")
			}
			fmt.Fprintln(out)
		}
		report("user", st.UserPath, st.UserInstalled, st.UserOnPath)
		report("system", st.SystemPath, st.SystemInstalled, st.SystemOnPath)
		if st.MetadataFound {
			fmt.Fprintln(out, "install metadata present")
		}
		return nil
	},
}

func init() {
	installCmd.Flags().Bool("system", false, "Install into the system bin directory")
	installCmd.Flags().String("path", "", "Install into this directory")
	installCmd.Flags().String("from", "", "Install this binary instead of the running one")
	installCmd.Flags().BoolP("dry-run", "n", false, "Print the plan without installing")
	installCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	uninstallCmd.Flags().BoolP("dry-run", "n", false, "Print the plan without removing anything")
	uninstallCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
}
