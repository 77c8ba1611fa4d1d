package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/themr/internal/bump"
	"github.com/VoxDroid/themr/internal/db"
	"github.com/VoxDroid/themr/internal/exporter"
	"github.com/VoxDroid/themr/internal/history"
	"github.com/VoxDroid/themr/internal/importer"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and move the release ledger",
}

// withLedger opens the project ledger and hands it to fn.
func withLedger(fn func(root string, repo *history.Repository) error) error {
	root, _, err := loadProject()
	if err != nil {
		return err
	}
	conn, err := db.Open(root)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return fn(root, history.NewRepository(conn))
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded releases, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kindFilter, _ := cmd.Flags().GetString("kind")
		if kindFilter != "" {
			if _, err := bump.ParseKind(kindFilter); err != nil {
				return err
			}
		}

		return withLedger(func(_ string, repo *history.Repository) error {
			rels, err := repo.List(0)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rels) == 0 {
				fmt.Fprintln(out, "no releases recorded")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Version", "Kind", "Tag", "Date", "Author", "Artifact"})
			shown := 0
			for _, rel := range rels {
				if kindFilter != "" && rel.BumpKind != strings.ToLower(kindFilter) {
					continue
				}
				if limit > 0 && shown >= limit {
					break
				}
				t.AppendRow(table.Row{
					rel.OldVersion + " -> " + rel.NewVersion,
					rel.BumpKind,
					rel.Tag.String,
					rel.CreatedAt,
					rel.AuthorName.String,
					rel.Artifact.String,
				})
				shown++
			}
			t.Render()
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <version>",
	Short: "Show the ledger rows for one released version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(_ string, repo *history.Repository) error {
			rels, err := repo.ByVersion(args[0])
			if err != nil {
				return err
			}
			if len(rels) == 0 {
				return fmt.Errorf("no release recorded for version %s", args[0])
			}
			out := cmd.OutOrStdout()
			for _, rel := range rels {
				fmt.Fprintf(out, "%s -> %s (%s) at %s\n", rel.OldVersion, rel.NewVersion, rel.BumpKind, rel.CreatedAt)
				if rel.Tag.Valid {
					fmt.Fprintf(out, "  tag:      %s\n", rel.Tag.String)
				}
				if rel.Branch.Valid {
					fmt.Fprintf(out, "  branch:   %s\n", rel.Branch.String)
				}
				if rel.CommitHash.Valid {
					fmt.Fprintf(out, "  commit:   %s\n", rel.CommitHash.String)
				}
				if rel.Artifact.Valid {
					fmt.Fprintf(out, "  artifact: %s\n", rel.Artifact.String)
				}
				if rel.AuthorName.Valid || rel.AuthorEmail.Valid {
					fmt.Fprintf(out, "  author:   %s <%s>\n", rel.AuthorName.String, rel.AuthorEmail.String)
				}
				if rel.Notes.Valid {
					fmt.Fprintf(out, "  notes:    %s\n", rel.Notes.String)
				}
			}
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the ledger as JSON (or a database copy with --db)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asDB, _ := cmd.Flags().GetBool("db")
		return withLedger(func(root string, repo *history.Repository) error {
			if asDB {
				if err := exporter.ExportDatabase(root, args[0]); err != nil {
					return err
				}
			} else {
				if err := exporter.ExportJSONFile(repo, args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported ledger to %s\n", args[0])
			return nil
		})
	},
}

var historyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a JSON export (or a ledger database with --db) into this project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asDB, _ := cmd.Flags().GetBool("db")
		return withLedger(func(_ string, repo *history.Repository) error {
			var (
				n   int
				err error
			)
			if asDB {
				n, err = importer.MergeDatabase(repo, args[0])
			} else {
				f, ferr := os.Open(args[0])
				if ferr != nil {
					return fmt.Errorf("open %s: %w", args[0], ferr)
				}
				defer func() { _ = f.Close() }()
				n, err = importer.MergeJSON(repo, f)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d release(s)\n", n)
			return nil
		})
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "Show at most this many rows (0 = all)")
	historyListCmd.Flags().String("kind", "", "Only show releases of this bump kind")
	historyExportCmd.Flags().Bool("db", false, "Copy the SQLite database instead of writing JSON")
	historyImportCmd.Flags().Bool("db", false, "Treat the file as a ledger database instead of JSON")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyImportCmd)
	rootCmd.AddCommand(historyCmd)
}
