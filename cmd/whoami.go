package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/VoxDroid/themr/internal/gitrepo"
	"github.com/VoxDroid/themr/internal/user"
	"github.com/VoxDroid/themr/internal/utils"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the author identity stamped onto releases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, _, err := loadProject()
		if err != nil {
			return err
		}
		runner := newRunner()
		var repo *gitrepo.Repo
		if gitrepo.Available(runner) == nil {
			repo = gitrepo.New(runner, root)
		}
		p, err := user.Resolve(cmd.Context(), root, repo)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if p.Name == "" && p.Email == "" {
			fmt.Fprintln(out, "no author identity set (use `themr whoami set`)")
			return nil
		}
		fmt.Fprintf(out, "%s <%s>\n", p.Name, p.Email)
		stored, ok, err := user.GetProfile(root)
		if err != nil {
			return err
		}
		if ok && (stored.Name != "" || stored.Email != "") {
			fmt.Fprintln(out, "source: project profile")
		} else {
			fmt.Fprintln(out, "source: git config")
		}
		return nil
	},
}

var whoamiShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the author identity stamped onto releases",
	Args:  cobra.NoArgs,
	RunE:  whoamiCmd.RunE,
}

var whoamiSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store an author identity for this project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		if name == "" && email == "" && term.IsTerminal(int(os.Stdin.Fd())) {
			name = utils.Prompt("author name")
			email = utils.Prompt("author email")
		}
		if name == "" && email == "" {
			return fmt.Errorf("pass --name and/or --email")
		}
		root, _, err := loadProject()
		if err != nil {
			return err
		}
		if err := user.SetProfile(root, user.Profile{Name: name, Email: email}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %s <%s>\n", name, email)
		return nil
	},
}

var whoamiClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored author identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, _, err := loadProject()
		if err != nil {
			return err
		}
		if err := user.ClearProfile(root); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cleared author identity")
		return nil
	},
}

func init() {
	whoamiSetCmd.Flags().String("name", "", "Author name")
	whoamiSetCmd.Flags().String("email", "", "Author email")
	whoamiCmd.AddCommand(whoamiShowCmd)
	whoamiCmd.AddCommand(whoamiSetCmd)
	whoamiCmd.AddCommand(whoamiClearCmd)
	rootCmd.AddCommand(whoamiCmd)
}
