package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashdvishwakarma/tasksaas/models"
)

func taskWith(id int64, status models.TaskStatus, title string) models.Task {
	return models.Task{ID: id, Title: title, Status: status}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestApplyStatusFilter(t *testing.T) {
	tasks := []models.Task{
		taskWith(1, models.StatusTodo, "a"),
		taskWith(2, models.StatusDone, "b"),
		taskWith(3, models.StatusInProgress, "c"),
		taskWith(4, models.StatusDone, "d"),
	}

	for _, status := range []models.TaskStatus{models.StatusTodo, models.StatusInProgress, models.StatusDone} {
		p := DefaultParams()
		p.Status = status
		for _, got := range Apply(tasks, p) {
			assert.Equal(t, status, got.Status)
		}
	}

	all := Apply(tasks, DefaultParams())
	assert.Len(t, all, len(tasks))
}

func TestApplySearchMatchesTitleOnly(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Title: "Fix Login Page", Description: "deploy"},
		{ID: 2, Title: "Write report", Description: "login related"},
	}

	p := DefaultParams()
	p.Search = "LOGIN"
	got := Apply(tasks, p)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	p.Search = ""
	assert.Len(t, Apply(tasks, p), 2)
}

func TestApplySortPriorityDescendingStable(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Title: "a", Priority: models.PriorityMedium},
		{ID: 2, Title: "b", Priority: models.PriorityHigh},
		{ID: 3, Title: "c", Priority: models.PriorityMedium},
		{ID: 4, Title: "d", Priority: models.PriorityLow},
	}

	p := DefaultParams()
	p.SortBy = SortPriority
	got := Apply(tasks, p)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, int(got[i-1].Priority), int(got[i].Priority))
	}
	// Equal priorities keep input order.
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, int64(3), got[2].ID)
}

func TestApplySortDueDateUndatedLast(t *testing.T) {
	sentinel := time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)

	tasks := []models.Task{
		{ID: 1, Title: "no date"},
		{ID: 2, Title: "later", DueDate: timePtr(later)},
		{ID: 3, Title: "sentinel", DueDate: timePtr(sentinel)},
		{ID: 4, Title: "soon", DueDate: timePtr(soon)},
	}

	p := DefaultParams()
	p.SortBy = SortDueDate
	got := Apply(tasks, p)

	require.Len(t, got, 4)
	assert.Equal(t, int64(4), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	// Both the nil due date and the year-1 sentinel count as undated and
	// sort after every dated task.
	assert.ElementsMatch(t, []int64{1, 3}, []int64{got[2].ID, got[3].ID})
}

func TestApplySortStatusAscending(t *testing.T) {
	tasks := []models.Task{
		taskWith(1, models.StatusDone, "a"),
		taskWith(2, models.StatusTodo, "b"),
		taskWith(3, models.StatusInProgress, "c"),
	}

	p := DefaultParams()
	p.SortBy = SortStatus
	got := Apply(tasks, p)
	require.Len(t, got, 3)
	assert.Equal(t, models.StatusTodo, got[0].Status)
	assert.Equal(t, models.StatusInProgress, got[1].Status)
	assert.Equal(t, models.StatusDone, got[2].Status)
}

func TestApplyDateRangeFilter(t *testing.T) {
	now := time.Now()
	old := now.AddDate(0, 0, -20)
	recent := now.AddDate(0, 0, -2)

	tasks := []models.Task{
		{ID: 1, Title: "old", CreatedAt: timePtr(old)},
		{ID: 2, Title: "recent", CreatedAt: timePtr(recent)},
		{ID: 3, Title: "undated"},
	}

	from := now.AddDate(0, 0, -7)
	p := DefaultParams()
	p.From = &from
	got := Apply(tasks, p)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestApplyAssigneeAndOwnerFilter(t *testing.T) {
	five, seven := int64(5), int64(7)
	tasks := []models.Task{
		{ID: 1, Title: "a", OwnerID: 5, AssigneeID: &seven},
		{ID: 2, Title: "b", OwnerID: 7, AssigneeID: &five},
		{ID: 3, Title: "c", OwnerID: 5},
	}

	p := DefaultParams()
	p.AssigneeID = &seven
	got := Apply(tasks, p)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	p = DefaultParams()
	p.OwnerID = &five
	got = Apply(tasks, p)
	require.Len(t, got, 2)
}

// Mirrors the dashboard's default view: status "all", newest first.
func TestDashboardDefaultView(t *testing.T) {
	tasks := []models.Task{
		taskWith(1, models.StatusTodo, "A"),
		taskWith(2, models.StatusDone, "B"),
		taskWith(3, models.StatusInProgress, "C"),
	}

	got := Apply(tasks, DefaultParams())
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, int64(1), got[2].ID)

	summary := StatusSummary(got)
	require.Len(t, summary, 3)
	total := 0
	pctSum := 0
	for _, s := range summary {
		assert.Equal(t, 1, s.Count)
		total += s.Count
		pctSum += s.Percentage
	}
	assert.Equal(t, 3, total)
	// 33/33/33 with rounding slack of at most (buckets-1).
	assert.InDelta(t, 100, pctSum, 2)
}
