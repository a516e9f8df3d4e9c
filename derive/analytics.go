package derive

import (
	"math"
	"sort"
	"time"

	"github.com/yashdvishwakarma/tasksaas/models"
)

// StatusCount is one slice of the status summary chart.
type StatusCount struct {
	Status     models.TaskStatus
	Label      string
	Count      int
	Percentage int
}

// StatusSummary counts tasks per status and computes each bucket's integer
// percentage of the total. A zero total yields 0% everywhere, never NaN.
func StatusSummary(tasks []models.Task) []StatusCount {
	counts := map[models.TaskStatus]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	total := len(tasks)

	out := make([]StatusCount, 0, 3)
	for _, status := range []models.TaskStatus{models.StatusTodo, models.StatusInProgress, models.StatusDone} {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(counts[status]) / float64(total) * 100))
		}
		out = append(out, StatusCount{Status: status, Label: status.String(), Count: counts[status], Percentage: pct})
	}
	return out
}

// ActiveCompleted splits the task count into not-yet-done and done, for the
// dashboard footer.
func ActiveCompleted(tasks []models.Task) (active, completed int) {
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

// PriorityCount is one slice of the priority distribution chart.
type PriorityCount struct {
	Priority models.Priority
	Label    string
	Count    int
}

func PrioritySummary(tasks []models.Task) []PriorityCount {
	counts := map[models.Priority]int{}
	for _, t := range tasks {
		counts[t.Priority]++
	}
	out := make([]PriorityCount, 0, 3)
	for _, p := range []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh} {
		out = append(out, PriorityCount{Priority: p, Label: p.String(), Count: counts[p]})
	}
	return out
}

// DateField selects which task date feeds the time series.
type DateField int

const (
	ByCreated DateField = iota
	ByDueDate
)

// SeriesPoint is one calendar day of the trend chart.
type SeriesPoint struct {
	Date       string // local calendar day, "2006-01-02"
	Created    int
	Completed  int
	InProgress int
}

// TimeSeries groups tasks by local calendar day of the selected date field,
// enumerating every day from from to to inclusive. Days with no tasks are
// emitted as zero rows; tasks without the selected date are excluded.
func TimeSeries(tasks []models.Task, from, to time.Time, by DateField) []SeriesPoint {
	perDay := map[string]int{}
	var out []SeriesPoint

	for day := startOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		perDay[key] = len(out)
		out = append(out, SeriesPoint{Date: key})
	}

	for _, t := range tasks {
		var date *time.Time
		switch by {
		case ByDueDate:
			if !t.HasDueDate() {
				continue
			}
			date = t.DueDate
		default:
			if t.CreatedAt == nil {
				continue
			}
			date = t.CreatedAt
		}
		idx, ok := perDay[date.Local().Format("2006-01-02")]
		if !ok {
			continue
		}
		out[idx].Created++
		switch t.Status {
		case models.StatusDone:
			out[idx].Completed++
		case models.StatusInProgress:
			out[idx].InProgress++
		}
	}
	return out
}

// Overdue age buckets, in display order.
var overdueRanges = []string{"1-3 days", "4-7 days", "1-2 weeks", "2+ weeks"}

// OverdueBucket is one age range of the overdue chart.
type OverdueBucket struct {
	Range string
	Count int
}

// IsOverdue reports whether a task counts as overdue: due strictly before
// now, not Done, and carrying a real due date (the year-1 sentinel is "no due
// date", not "very overdue").
func IsOverdue(t *models.Task, now time.Time) bool {
	return t.HasDueDate() && t.DueDate.Before(now) && t.Status != models.StatusDone
}

// OverdueBuckets classifies overdue tasks into age ranges by the whole-day
// difference between now and the due date. Every overdue task lands in
// exactly one bucket.
func OverdueBuckets(tasks []models.Task, now time.Time) []OverdueBucket {
	counts := map[string]int{}
	for i := range tasks {
		if !IsOverdue(&tasks[i], now) {
			continue
		}
		days := wholeDays(now.Sub(*tasks[i].DueDate))
		switch {
		case days <= 3:
			counts["1-3 days"]++
		case days <= 7:
			counts["4-7 days"]++
		case days <= 14:
			counts["1-2 weeks"]++
		default:
			counts["2+ weeks"]++
		}
	}
	out := make([]OverdueBucket, 0, len(overdueRanges))
	for _, r := range overdueRanges {
		out = append(out, OverdueBucket{Range: r, Count: counts[r]})
	}
	return out
}

// AvgCompletionDays is the mean whole-day difference between creation and
// last modification, over Done tasks that carry both timestamps. Returns 0
// when no task qualifies.
func AvgCompletionDays(tasks []models.Task) int {
	totalDays, completed := 0, 0
	for _, t := range tasks {
		if t.Status != models.StatusDone || t.CreatedAt == nil || t.UpdatedAt == nil {
			continue
		}
		totalDays += wholeDays(t.UpdatedAt.Sub(*t.CreatedAt))
		completed++
	}
	if completed == 0 {
		return 0
	}
	return int(math.Round(float64(totalDays) / float64(completed)))
}

// Velocity is the count of tasks completed within the trailing 7 days,
// divided by 7 and rounded to one decimal place. Tasks per day.
func Velocity(tasks []models.Task, now time.Time) float64 {
	completed := 0
	cutoff := now.AddDate(0, 0, -7)
	for _, t := range tasks {
		if t.CreatedAt == nil || t.CreatedAt.Before(cutoff) {
			continue
		}
		if t.Status == models.StatusDone {
			completed++
		}
	}
	return math.Round(float64(completed)/7*10) / 10
}

// Metrics is the headline card row of the analytics view.
type Metrics struct {
	Total             int
	Completed         int
	InProgress        int
	Pending           int
	HighPriority      int
	Overdue           int
	CompletionRate    int // percent
	CompletionChange  int // percent vs previous 7-day window, 0 when empty
	AvgCompletionDays int
	Velocity          float64
}

// ComputeMetrics derives the headline metrics from one task array.
func ComputeMetrics(tasks []models.Task, now time.Time) Metrics {
	m := Metrics{Total: len(tasks)}
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case models.StatusDone:
			m.Completed++
		case models.StatusInProgress:
			m.InProgress++
		default:
			m.Pending++
		}
		if t.Priority == models.PriorityHigh {
			m.HighPriority++
		}
		if IsOverdue(t, now) {
			m.Overdue++
		}
	}
	if m.Total > 0 {
		m.CompletionRate = int(math.Round(float64(m.Completed) / float64(m.Total) * 100))
	}

	// Previous window: tasks created 14 to 7 days ago.
	prevStart := now.AddDate(0, 0, -14)
	prevEnd := now.AddDate(0, 0, -7)
	prevCompleted := 0
	for _, t := range tasks {
		if t.CreatedAt == nil || t.Status != models.StatusDone {
			continue
		}
		if !t.CreatedAt.Before(prevStart) && !t.CreatedAt.After(prevEnd) {
			prevCompleted++
		}
	}
	if prevCompleted > 0 {
		m.CompletionChange = int(math.Round(float64(m.Completed-prevCompleted) / float64(prevCompleted) * 100))
	}

	m.AvgCompletionDays = AvgCompletionDays(tasks)
	m.Velocity = Velocity(tasks, now)
	return m
}

// UserPerformance is one assignee's row of the performance table.
type UserPerformance struct {
	AssigneeID int64
	Assigned   int
	Completed  int
	Rate       int // percent completed of assigned
}

// The performance table shows only the busiest assignees.
const performanceTableSize = 5

// UserPerformanceTable aggregates per-assignee completion, sorted by
// completed count descending and capped at the top five rows. Unassigned
// tasks are skipped.
func UserPerformanceTable(tasks []models.Task) []UserPerformance {
	perUser := map[int64]*UserPerformance{}
	var order []int64
	for _, t := range tasks {
		if t.AssigneeID == nil {
			continue
		}
		id := *t.AssigneeID
		stats, ok := perUser[id]
		if !ok {
			stats = &UserPerformance{AssigneeID: id}
			perUser[id] = stats
			order = append(order, id)
		}
		stats.Assigned++
		if t.Status == models.StatusDone {
			stats.Completed++
		}
	}

	out := make([]UserPerformance, 0, len(order))
	for _, id := range order {
		stats := perUser[id]
		if stats.Assigned > 0 {
			stats.Rate = int(math.Round(float64(stats.Completed) / float64(stats.Assigned) * 100))
		}
		out = append(out, *stats)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Completed > out[j].Completed
	})
	if len(out) > performanceTableSize {
		out = out[:performanceTableSize]
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// wholeDays truncates a duration to full 24-hour days.
func wholeDays(d time.Duration) int {
	return int(d.Hours() / 24)
}
