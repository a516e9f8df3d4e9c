package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yashdvishwakarma/tasksaas/models"
	"github.com/yashdvishwakarma/tasksaas/utils"
)

var orgPlan string

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Manage organizations (admin)",
}

var orgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/organizations"
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		page, err := a.api.ListOrganizations(cmd.Context(), 1, 50)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSLUG\tPLAN\tUSERS\tACTIVE")
		for _, org := range page.Data {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%t\n", org.ID, org.Name, org.Slug, org.Plan, org.UserCount, org.IsActive)
		}
		w.Flush()
		fmt.Printf("\n%d organizations\n", page.Total)
		return nil
	},
}

var orgAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/organizations"
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Slug preview: %s\n", utils.SlugPreview(args[0]))
		org, err := a.api.CreateOrganization(cmd.Context(), models.CreateOrganizationRequest{
			Name: args[0],
			Plan: models.Plan(orgPlan),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created organization %d (%s) on the %s plan.\n", org.ID, org.Slug, org.Plan)
		return nil
	},
}

func init() {
	orgAddCmd.Flags().StringVar(&orgPlan, "plan", string(models.PlanFree), "plan: Free, Starter, Professional, Enterprise")
	orgCmd.AddCommand(orgListCmd, orgAddCmd)
	rootCmd.AddCommand(orgCmd)
}
