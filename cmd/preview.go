package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/highlight"
	"github.com/VoxDroid/themr/internal/log"
	"github.com/VoxDroid/themr/internal/samples"
	"github.com/VoxDroid/themr/internal/theme"
)

// selectSamples returns all samples, or just the named one.
func selectSamples(name string) ([]samples.Sample, error) {
	if name == "" {
		return samples.All(), nil
	}
	s, err := samples.Get(name)
	if err != nil {
		return nil, err
	}
	return []samples.Sample{s}, nil
}

// renderPreview paints the selected samples (all of them when name is
// empty) through the theme at themePath.
func renderPreview(w io.Writer, themePath, name string) error {
	th, err := theme.Load(themePath)
	if err != nil {
		return err
	}
	r, err := highlight.New(th)
	if err != nil {
		return err
	}
	selected, err := selectSamples(name)
	if err != nil {
		return err
	}

	for _, s := range selected {
		src, err := s.Source()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "── %s (%s) ──\n", s.Language, s.File)
		if err := r.Render(w, src, s.Lexer, s.File); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

// renderCoverage reports, per language, which theme rules fired while
// tokenizing the sample and which token types fell through to the
// default foreground.
func renderCoverage(w io.Writer, themePath, name string) error {
	th, err := theme.Load(themePath)
	if err != nil {
		return err
	}
	selected, err := selectSamples(name)
	if err != nil {
		return err
	}

	for _, s := range selected {
		src, err := s.Source()
		if err != nil {
			return err
		}
		cov, err := highlight.CoverageFor(th, s.Language, src, s.Lexer, s.File)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (%s)\n", cov.Language, s.File)
		if len(cov.Fired) > 0 {
			fmt.Fprintf(w, "  styled:  %s\n", strings.Join(cov.Fired, ", "))
		} else {
			fmt.Fprintln(w, "  styled:  none")
		}
		if len(cov.FellThrough) > 0 {
			fmt.Fprintf(w, "  default: %s\n", strings.Join(cov.FellThrough, ", "))
		}
	}
	return nil
}

// watchPreview re-renders whenever the theme file changes, until ctx is
// done.
func watchPreview(ctx context.Context, w io.Writer, themePath, name string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(themePath); err != nil {
		return fmt.Errorf("watch %s: %w", themePath, err)
	}

	logger := log.WithComponent("preview")
	if err := renderPreview(w, themePath, name); err != nil {
		return err
	}
	fmt.Fprintf(w, "watching %s (ctrl-c to stop)\n", themePath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, open := <-watcher.Events:
			if !open {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug().Str("event", ev.String()).Msg("theme changed")
			if err := renderPreview(w, themePath, name); err != nil {
				// A half-written theme save is normal mid-edit; report
				// and keep watching.
				fmt.Fprintf(w, "render error: %v\n", err)
			}
		case err, open := <-watcher.Errors:
			if !open {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")
		}
	}
}

var previewCmd = &cobra.Command{
	Use:   "preview [sample]",
	Short: "Render syntax samples in the terminal with the theme's colors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		override, _ := cmd.Flags().GetString("theme")
		watch, _ := cmd.Flags().GetBool("watch")
		coverage, _ := cmd.Flags().GetBool("coverage")

		root, cfg, err := loadProject()
		if err != nil {
			return err
		}
		themePath, err := resolveThemePath(root, cfg, override)
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		if coverage {
			return renderCoverage(cmd.OutOrStdout(), themePath, name)
		}
		if !watch {
			return renderPreview(cmd.OutOrStdout(), themePath, name)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return watchPreview(ctx, cmd.OutOrStdout(), themePath, name)
	},
}

func init() {
	previewCmd.Flags().String("theme", "", "Theme file to render with (default: first contributed theme)")
	previewCmd.Flags().BoolP("watch", "w", false, "Re-render when the theme file changes")
	previewCmd.Flags().Bool("coverage", false, "Report which theme rules fire per language instead of rendering")
	rootCmd.AddCommand(previewCmd)
}
