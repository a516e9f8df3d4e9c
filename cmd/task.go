package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yashdvishwakarma/tasksaas/derive"
	"github.com/yashdvishwakarma/tasksaas/models"
	"github.com/yashdvishwakarma/tasksaas/mutate"
)

var (
	taskSearch   string
	taskStatus   string
	taskSort     string
	taskPage     int
	taskLimit    int
	taskPriority string
	taskDue      string
	taskTags     string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work with tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with the dashboard's filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/dashboard"
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.tasks.Load(cmd.Context(), taskPage, taskLimit); err != nil {
			return err
		}

		params, err := listParams()
		if err != nil {
			return err
		}
		tasks := derive.Apply(a.tasks.Snapshot(), params)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
		for _, t := range tasks {
			due := "-"
			if t.HasDueDate() {
				due = t.DueDate.Local().Format("2006-01-02")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, due, t.Title)
		}
		w.Flush()

		meta := a.tasks.Meta()
		active, completed := derive.ActiveCompleted(a.tasks.Snapshot())
		fmt.Printf("\n%d active, %d completed (page %d, %d total)\n", active, completed, meta.Page, meta.Total)
		return nil
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/dashboard"
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		draft := mutate.Draft{Title: strings.Join(args, " ")}
		switch strings.ToLower(taskPriority) {
		case "", "medium":
			draft.Priority = models.PriorityMedium
		case "low":
			draft.Priority = models.PriorityLow
		case "high":
			draft.Priority = models.PriorityHigh
		default:
			return fmt.Errorf("unknown priority %q (low, medium, high)", taskPriority)
		}
		if taskDue != "" {
			due, err := time.ParseInLocation("2006-01-02", taskDue, time.Local)
			if err != nil {
				return fmt.Errorf("due date must be YYYY-MM-DD: %w", err)
			}
			draft.DueDate = &due
		}
		if taskTags != "" {
			for _, tag := range strings.Split(taskTags, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					draft.Tags = append(draft.Tags, tag)
				}
			}
		}

		if err := a.mutator.Create(cmd.Context(), draft); err != nil {
			return err
		}
		fmt.Println("Task created.")
		return nil
	},
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Advance a task's status (ToDo -> In Progress -> Done -> ToDo)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/dashboard"
		a, task, err := loadTask(cmd, args[0])
		if err != nil {
			return err
		}
		defer a.Close()
		return a.mutator.ToggleStatus(cmd.Context(), task)
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id> <title>",
	Short: "Rename a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/dashboard"
		a, task, err := loadTask(cmd, args[0])
		if err != nil {
			return err
		}
		defer a.Close()
		return a.mutator.EditTitle(cmd.Context(), task, strings.Join(args[1:], " "))
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/dashboard"
		a, task, err := loadTask(cmd, args[0])
		if err != nil {
			return err
		}
		defer a.Close()
		return a.mutator.Delete(cmd.Context(), task)
	},
}

var taskBulkDoneCmd = &cobra.Command{
	Use:   "bulk-done <id>...",
	Short: "Mark several tasks Done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/dashboard"
		a, ids, err := loadTaskIDs(cmd, args)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.mutator.BulkComplete(cmd.Context(), ids)
	},
}

var taskBulkRmCmd = &cobra.Command{
	Use:   "bulk-rm <id>...",
	Short: "Delete several tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currentRoute = "/dashboard"
		a, ids, err := loadTaskIDs(cmd, args)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.mutator.BulkDelete(cmd.Context(), ids)
	},
}

// loadTask wires the app, loads the current page, and resolves one task id.
func loadTask(cmd *cobra.Command, arg string) (*app, models.Task, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, models.Task{}, fmt.Errorf("task id must be numeric: %q", arg)
	}
	a, err := newApp()
	if err != nil {
		return nil, models.Task{}, err
	}
	if err := a.tasks.Load(cmd.Context(), taskPage, taskLimit); err != nil {
		a.Close()
		return nil, models.Task{}, err
	}
	task, ok := a.tasks.Find(id)
	if !ok {
		a.Close()
		return nil, models.Task{}, fmt.Errorf("no task with id %d on the current page", id)
	}
	return a, task, nil
}

func loadTaskIDs(cmd *cobra.Command, args []string) (*app, []int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("task id must be numeric: %q", arg)
		}
		ids = append(ids, id)
	}
	a, err := newApp()
	if err != nil {
		return nil, nil, err
	}
	if err := a.tasks.Load(cmd.Context(), taskPage, taskLimit); err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, ids, nil
}

func listParams() (derive.Params, error) {
	params := derive.DefaultParams()
	params.Search = taskSearch

	switch strings.ToLower(taskStatus) {
	case "", "all":
		params.Status = derive.StatusAll
	case "todo":
		params.Status = models.StatusTodo
	case "inprogress", "in-progress":
		params.Status = models.StatusInProgress
	case "done":
		params.Status = models.StatusDone
	default:
		return params, fmt.Errorf("unknown status filter %q (all, todo, inprogress, done)", taskStatus)
	}

	switch strings.ToLower(taskSort) {
	case "", "created":
		params.SortBy = derive.SortCreated
	case "due":
		params.SortBy = derive.SortDueDate
	case "priority":
		params.SortBy = derive.SortPriority
	case "status":
		params.SortBy = derive.SortStatus
	default:
		return params, fmt.Errorf("unknown sort key %q (created, due, priority, status)", taskSort)
	}
	return params, nil
}

func init() {
	taskListCmd.Flags().StringVar(&taskSearch, "search", "", "case-insensitive title search")
	taskListCmd.Flags().StringVar(&taskStatus, "status", "all", "status filter: all, todo, inprogress, done")
	taskListCmd.Flags().StringVar(&taskSort, "sort", "created", "sort key: created, due, priority, status")

	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "medium", "priority: low, medium, high")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringVar(&taskTags, "tags", "", "comma-separated tags")

	taskCmd.PersistentFlags().IntVar(&taskPage, "page", 1, "page to load")
	taskCmd.PersistentFlags().IntVar(&taskLimit, "limit", 10, "page size")

	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskToggleCmd, taskEditCmd, taskRmCmd, taskBulkDoneCmd, taskBulkRmCmd)
	rootCmd.AddCommand(taskCmd)
}
