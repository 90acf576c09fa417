package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/opendoor/internal/session"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the desktop account",
}

var userResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the account so the next desktop start runs setup again",
	Args:  cobra.NoArgs,
	RunE:  runUserReset,
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userResetCmd)
	userResetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	userResetCmd.Flags().String("file", "", "Account file (default: $XDG_STATE_HOME/opendoor/user.yaml)")
}

func runUserReset(cmd *cobra.Command, args []string) error {
	store, err := userStore(cmd)
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to reset without --yes on a non-interactive terminal")
		}
		confirm := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Delete the opendoor account?").
				Description(store.Path()).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirm),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirm {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
	}

	if err := store.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "account removed")
	return nil
}

func userStore(cmd *cobra.Command) (*session.Store, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		return session.NewStore(path), nil
	}
	return session.DefaultStore()
}
