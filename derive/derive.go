// Package derive contains the pure transformations between the cached task
// array and the view models rendered by the dashboard and analytics views.
// Nothing in this package touches the network or storage, and nothing panics:
// malformed or missing dates degrade to "no date" and fall out of any
// date-dependent calculation.
package derive

import (
	"sort"
	"strings"
	"time"

	"github.com/yashdvishwakarma/tasksaas/models"
)

// StatusAll disables the status filter.
const StatusAll models.TaskStatus = -1

type SortKey int

const (
	// SortCreated is the default: newest first, using the server-assigned id
	// as a proxy for creation time.
	SortCreated SortKey = iota
	SortDueDate
	SortPriority
	SortStatus
)

// Params are the user-chosen inputs of the pipeline.
type Params struct {
	Search     string
	Status     models.TaskStatus // StatusAll passes everything through
	SortBy     SortKey
	From       *time.Time // inclusive creation-date range filter
	To         *time.Time
	AssigneeID *int64
	OwnerID    *int64
}

// DefaultParams matches the dashboard's initial state: no search, all
// statuses, newest first.
func DefaultParams() Params {
	return Params{Status: StatusAll, SortBy: SortCreated}
}

// Apply filters and sorts the task array. The input slice is not modified.
func Apply(tasks []models.Task, p Params) []models.Task {
	search := strings.ToLower(strings.TrimSpace(p.Search))

	filtered := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		if p.Status != StatusAll && t.Status != p.Status {
			continue
		}
		if p.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *p.AssigneeID) {
			continue
		}
		if p.OwnerID != nil && t.OwnerID != *p.OwnerID {
			continue
		}
		if p.From != nil || p.To != nil {
			if t.CreatedAt == nil {
				continue
			}
			if p.From != nil && t.CreatedAt.Before(*p.From) {
				continue
			}
			if p.To != nil && t.CreatedAt.After(*p.To) {
				continue
			}
		}
		filtered = append(filtered, t)
	}

	sortTasks(filtered, p.SortBy)
	return filtered
}

func sortTasks(tasks []models.Task, key SortKey) {
	switch key {
	case SortPriority:
		// Descending: High first. Stable, so equal priorities keep their
		// fetched order.
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority > tasks[j].Priority
		})
	case SortDueDate:
		// Ascending by due date. Tasks without a usable due date sort last,
		// never as if they were due at the epoch.
		sort.SliceStable(tasks, func(i, j int) bool {
			di, dj := tasks[i].HasDueDate(), tasks[j].HasDueDate()
			switch {
			case di && dj:
				return tasks[i].DueDate.Before(*tasks[j].DueDate)
			case di:
				return true
			default:
				return false
			}
		})
	case SortStatus:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Status < tasks[j].Status
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].ID > tasks[j].ID
		})
	}
}
