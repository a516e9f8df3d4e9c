package cmd

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/yashdvishwakarma/tasksaas/models"
	"github.com/yashdvishwakarma/tasksaas/session"
	"github.com/yashdvishwakarma/tasksaas/utils"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and store the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = session.RouteLogin
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		resp, err := a.api.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		user := models.User{ID: resp.ID, FullName: resp.FullName, Email: resp.Email, Role: resp.Role, IsActive: true}
		if err := a.store.SaveLogin(resp.Token, user); err != nil {
			return err
		}

		fmt.Printf("Signed in as %s (%s)\n", resp.FullName, resp.Email)
		if route, ok := session.NewCoordinator(a.store, nil, nil).ConsumeRedirect(); ok {
			fmt.Printf("You were signed out from %s; pick up where you left off.\n", route)
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <full-name> <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = session.RouteLogin
		fullName, email := args[0], args[1]

		// Field validation runs locally; nothing is sent until it passes.
		if err := utils.ValidateFullName(fullName); err != nil {
			return err
		}
		if err := utils.ValidateEmail(email); err != nil {
			return err
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		if err := utils.ValidatePassword(password); err != nil {
			return err
		}
		fmt.Printf("Password strength: %s\n", utils.PasswordStrengthLabel(utils.PasswordStrength(password)))

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.api.Register(cmd.Context(), models.RegisterRequest{
			FullName: fullName,
			Email:    email,
			Password: password,
			Role:     models.RoleUser,
		})
		if err != nil {
			return err
		}
		user := models.User{ID: resp.ID, FullName: resp.FullName, Email: resp.Email, Role: resp.Role, IsActive: true}
		if err := a.store.SaveLogin(resp.Token, user); err != nil {
			return err
		}
		fmt.Printf("Account created. Signed in as %s.\n", resp.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.logout.Logout(cmd.Context(), currentRoute)
		return nil
	},
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := terminal.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return string(raw), nil
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}
