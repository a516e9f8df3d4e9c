package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yashdvishwakarma/tasksaas/derive"
)

var analyticsRange string

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show the analytics dashboard's numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/analytics"
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// The analytics view derives everything from one full page of tasks.
		if err := a.tasks.Load(cmd.Context(), 1, 100); err != nil {
			return err
		}
		tasks := a.tasks.Snapshot()
		now := time.Now()

		days := 7
		if analyticsRange == "30days" {
			days = 30
		}
		from := now.AddDate(0, 0, -days)

		params := derive.DefaultParams()
		params.From = &from
		filtered := derive.Apply(tasks, params)

		m := derive.ComputeMetrics(filtered, now)
		fmt.Printf("Last %d days\n\n", days)
		fmt.Printf("Total: %d  Completed: %d  In progress: %d  Pending: %d\n", m.Total, m.Completed, m.InProgress, m.Pending)
		fmt.Printf("High priority: %d  Overdue: %d\n", m.HighPriority, m.Overdue)
		fmt.Printf("Completion rate: %d%%  (change vs previous week: %+d%%)\n", m.CompletionRate, m.CompletionChange)
		fmt.Printf("Avg completion time: %d days  Velocity: %.1f tasks/day\n\n", m.AvgCompletionDays, m.Velocity)

		fmt.Println("By status:")
		for _, s := range derive.StatusSummary(filtered) {
			fmt.Printf("  %-12s %3d (%d%%)\n", s.Label, s.Count, s.Percentage)
		}

		fmt.Println("\nOverdue age:")
		for _, b := range derive.OverdueBuckets(filtered, now) {
			fmt.Printf("  %-10s %d\n", b.Range, b.Count)
		}

		fmt.Println("\nCreated per day:")
		for _, p := range derive.TimeSeries(filtered, from, now, derive.ByCreated) {
			bar := strings.Repeat("#", p.Created)
			fmt.Printf("  %s %3d %s\n", p.Date, p.Created, bar)
		}

		perf := derive.UserPerformanceTable(filtered)
		if len(perf) > 0 {
			fmt.Println("\nAssignee performance:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "  ASSIGNEE\tASSIGNED\tCOMPLETED\tRATE")
			for _, row := range perf {
				fmt.Fprintf(w, "  %d\t%d\t%d\t%d%%\n", row.AssigneeID, row.Assigned, row.Completed, row.Rate)
			}
			w.Flush()
		}
		return nil
	},
}

func init() {
	analyticsCmd.Flags().StringVar(&analyticsRange, "range", "7days", "time range: 7days or 30days")
	rootCmd.AddCommand(analyticsCmd)
}
