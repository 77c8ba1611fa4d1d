// Package cmd wires the themr command-line surface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/executor"
	"github.com/VoxDroid/themr/internal/log"
)

var (
	flagChdir   string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "themr",
	Short: "themr releases and previews VS Code color themes",
	Long: "themr owns the maintenance workflow of a VS Code color theme project:\n" +
		"version bumps and releases, .vsix packaging, theme validation, palette\n" +
		"inspection, syntax-sample management and terminal previews.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := ""
		if flagVerbose {
			level = "debug"
		}
		log.Configure(log.Config{Level: level})
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRunner builds the process executor. Tests swap it for a fake.
var newRunner = func() executor.Runner {
	return executor.New(flagVerbose)
}

// projectRoot resolves the theme project directory: -C when given,
// otherwise walking up from the working directory to the manifest.
func projectRoot() (string, error) {
	start := flagChdir
	if start == "" {
		start = "."
	}
	return config.FindProjectRoot(start)
}

// loadProject resolves the project root and its settings.
func loadProject() (string, config.Config, error) {
	root, err := projectRoot()
	if err != nil {
		return "", config.Config{}, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", config.Config{}, err
	}
	return root, cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagChdir, "chdir", "C", "", "Run as if started in this directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}
