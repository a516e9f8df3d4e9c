package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashdvishwakarma/tasksaas/models"
	"github.com/yashdvishwakarma/tasksaas/utils"
)

var (
	profileName  string
	profileEmail string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the signed-in profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/profile"
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		cached, ok := a.store.CurrentUser()
		if !ok {
			return errors.New("not signed in; run 'taskcli login' first")
		}
		user, err := a.api.GetProfile(cmd.Context(), cached.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\nRole: %s  Organization: %d  Active: %t\n", user.FullName, user.Email, user.Role, user.OrganizationID, user.IsActive)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/profile"
		if profileName == "" && profileEmail == "" {
			return errors.New("nothing to update; pass --name or --email")
		}
		if profileName != "" {
			if err := utils.ValidateFullName(profileName); err != nil {
				return err
			}
		}
		if profileEmail != "" {
			if err := utils.ValidateEmail(profileEmail); err != nil {
				return err
			}
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		cached, ok := a.store.CurrentUser()
		if !ok {
			return errors.New("not signed in; run 'taskcli login' first")
		}
		user, err := a.api.UpdateProfile(cmd.Context(), cached.ID, models.UpdateProfileRequest{
			FullName: profileName,
			Email:    profileEmail,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Profile updated: %s <%s>\n", user.FullName, user.Email)
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the account password",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/profile"
		current, err := readPassword("Current password: ")
		if err != nil {
			return err
		}
		next, err := readPassword("New password: ")
		if err != nil {
			return err
		}
		if err := utils.ValidatePassword(next); err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.api.ChangePassword(cmd.Context(), models.ChangePasswordRequest{
			CurrentPassword: current,
			NewPassword:     next,
		}); err != nil {
			return err
		}
		fmt.Println("Password changed.")
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "new full name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "new email address")
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd, passwdCmd)
}
