package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts (admin)",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/admin/users"
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		page, err := a.api.ListUsers(cmd.Context(), 1, 50)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
		for _, user := range page.Data {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", user.ID, user.FullName, user.Email, user.Role, user.IsActive)
		}
		w.Flush()
		fmt.Printf("\n%d accounts\n", page.Total)
		return nil
	},
}

var userActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Reactivate a deactivated account",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setUserActive(cmd, args[0], true) },
}

var userDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate an account so it can no longer log in",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setUserActive(cmd, args[0], false) },
}

func setUserActive(cmd *cobra.Command, arg string, active bool) error {
	currentRoute = "/admin/users"
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("user id must be numeric: %q", arg)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.api.SetUserActive(cmd.Context(), id, active)
	if err != nil {
		return err
	}
	state := "deactivated"
	if user.IsActive {
		state = "active"
	}
	fmt.Printf("%s <%s> is now %s.\n", user.FullName, user.Email, state)
	return nil
}

func init() {
	userCmd.AddCommand(userListCmd, userActivateCmd, userDeactivateCmd)
	rootCmd.AddCommand(userCmd)
}
