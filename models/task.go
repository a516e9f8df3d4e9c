package models

import "time"

type TaskStatus int

const (
	StatusTodo       TaskStatus = 0
	StatusInProgress TaskStatus = 1
	StatusDone       TaskStatus = 2
)

func (s TaskStatus) String() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return "Unknown"
}

type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return "Unknown"
}

// Task is one unit of work. The ID is server-assigned and monotonically
// increasing, so it doubles as creation order.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	OwnerID     int64      `json:"ownerId"`
	AssigneeID  *int64     `json:"assigneeId,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// HasDueDate reports whether the task carries a usable due date. The backend
// serializes "no due date" as a year-1 zero value, so that sentinel counts as
// no date.
func (t *Task) HasDueDate() bool {
	return t.DueDate != nil && t.DueDate.Year() > 1
}

// CreateTaskRequest is the payload for /task/createtask. Optional fields pass
// through unvalidated; only the title is checked client-side.
type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `json:"status"`
	Priority       Priority   `json:"priority"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Owner          int64      `json:"owner"`
	AssigneeID     *int64     `json:"assigneeId,omitempty"`
	OrganizationID int64      `json:"organizationId"`
	Role           string     `json:"Role"`
}

// DeleteTaskRequest mirrors the backend's delete contract, which wants most of
// the record echoed back rather than a bare id.
type DeleteTaskRequest struct {
	ID     int64      `json:"id"`
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
	Owner  int64      `json:"owner"`
	Role   string     `json:"Role"`
}
