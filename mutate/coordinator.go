// Package mutate issues task create/update/delete calls and triggers a full
// cache reload after every successful mutation. Reload-based consistency is
// the deliberate policy here: the client never patches a task in place.
package mutate

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yashdvishwakarma/tasksaas/logging"
	"github.com/yashdvishwakarma/tasksaas/models"
	"github.com/yashdvishwakarma/tasksaas/utils"
)

// ErrBulkFailed is the single generic error surfaced when any request of a
// bulk operation fails. Individual failures are logged, not reported.
var ErrBulkFailed = errors.New("one or more selected tasks could not be updated")

// API is the slice of the gateway client the coordinator needs.
type API interface {
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, req models.DeleteTaskRequest) error
}

// Collection is the task cache the coordinator reloads after mutations.
type Collection interface {
	Reload(ctx context.Context) error
	Find(id int64) (models.Task, bool)
}

// Identity supplies the logged-in user for request payloads.
type Identity interface {
	CurrentUser() (*models.User, bool)
}

// Confirmer asks the user to approve an action before the request goes out.
// Returning false aborts silently: no request, no state change.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Draft is the new-task form input. Only the title is validated locally;
// everything else passes through to the API as-is.
type Draft struct {
	Title       string
	Description string
	Priority    models.Priority
	DueDate     *time.Time
	Tags        []string
	AssigneeID  *int64
}

// Coordinator performs mutations against the API and keeps the cache fresh.
type Coordinator struct {
	api       API
	cache     Collection
	identity  Identity
	confirmer Confirmer
	limiter   *rate.Limiter
}

func NewCoordinator(api API, cache Collection, identity Identity, confirmer Confirmer) *Coordinator {
	return &Coordinator{
		api:       api,
		cache:     cache,
		identity:  identity,
		confirmer: confirmer,
		// Bulk fan-out pacing: bursts of 5, 10 requests/second sustained.
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
}

func (c *Coordinator) ownerInfo() (int64, int64, models.Role) {
	if user, ok := c.identity.CurrentUser(); ok {
		return user.ID, user.OrganizationID, user.Role
	}
	return 0, 0, models.RoleUser
}

// Create submits a new task. An empty (all-whitespace) title is rejected
// locally before any network call; the caller keeps the form input for retry.
func (c *Coordinator) Create(ctx context.Context, draft Draft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return &utils.FieldError{Field: "title", Message: "Title is required"}
	}

	ownerID, orgID, role := c.ownerInfo()
	_, err := c.api.CreateTask(ctx, models.CreateTaskRequest{
		Title:          draft.Title,
		Description:    draft.Description,
		Status:         models.StatusTodo,
		Priority:       draft.Priority,
		DueDate:        draft.DueDate,
		Tags:           draft.Tags,
		Owner:          ownerID,
		AssigneeID:     draft.AssigneeID,
		OrganizationID: orgID,
		Role:           string(role),
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: TASK_CREATE_FAILED, Description: Create task '%s' failed: %v", draft.Title, err)
		return err
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task '%s' created", draft.Title)
	return c.cache.Reload(ctx)
}

// ToggleStatus cycles ToDo -> InProgress -> Done -> ToDo with a full-record
// update. The Done -> ToDo transition is a rollback and needs explicit
// confirmation; declining leaves the task untouched and issues no request.
func (c *Coordinator) ToggleStatus(ctx context.Context, task models.Task) error {
	next := models.StatusTodo
	if task.Status != models.StatusDone {
		next = task.Status + 1
	}

	if task.Status == models.StatusDone && next == models.StatusTodo {
		if !c.confirmer.Confirm("Reopen completed task \"" + task.Title + "\"?") {
			logging.Logger.Infof("Event ID: TASK_ROLLBACK_DECLINED, Description: Rollback of task %d declined", task.ID)
			return nil
		}
	}

	task.Status = next
	if _, err := c.api.UpdateTask(ctx, task); err != nil {
		logging.Logger.Warnf("Event ID: TASK_STATUS_UPDATE_FAILED, Description: Status change for task %d failed: %v", task.ID, err)
		return err
	}
	return c.cache.Reload(ctx)
}

// EditTitle commits an inline title edit. An empty title abandons the edit
// silently: no request, no error.
func (c *Coordinator) EditTitle(ctx context.Context, task models.Task, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	task.Title = title
	if _, err := c.api.UpdateTask(ctx, task); err != nil {
		logging.Logger.Warnf("Event ID: TASK_TITLE_UPDATE_FAILED, Description: Title edit for task %d failed: %v", task.ID, err)
		return err
	}
	return c.cache.Reload(ctx)
}

// Delete removes one task after confirmation.
func (c *Coordinator) Delete(ctx context.Context, task models.Task) error {
	if !c.confirmer.Confirm("Delete task \"" + task.Title + "\"?") {
		return nil
	}
	ownerID, _, role := c.ownerInfo()
	err := c.api.DeleteTask(ctx, models.DeleteTaskRequest{
		ID:     task.ID,
		Title:  task.Title,
		Status: task.Status,
		Owner:  ownerID,
		Role:   string(role),
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: TASK_DELETE_FAILED, Description: Delete of task %d failed: %v", task.ID, err)
		return err
	}
	return c.cache.Reload(ctx)
}

// BulkComplete marks every selected task Done. Requests go out concurrently,
// all of them settle, then the cache reloads exactly once.
func (c *Coordinator) BulkComplete(ctx context.Context, ids []int64) error {
	return c.bulk(ctx, ids, "", func(ctx context.Context, task models.Task) error {
		task.Status = models.StatusDone
		_, err := c.api.UpdateTask(ctx, task)
		return err
	})
}

// BulkDelete removes every selected task. Bulk deletion is destructive, so it
// is confirmed up front, same as a single delete.
func (c *Coordinator) BulkDelete(ctx context.Context, ids []int64) error {
	prompt := "Delete the selected tasks?"
	return c.bulk(ctx, ids, prompt, func(ctx context.Context, task models.Task) error {
		ownerID, _, role := c.ownerInfo()
		return c.api.DeleteTask(ctx, models.DeleteTaskRequest{
			ID:     task.ID,
			Title:  task.Title,
			Status: task.Status,
			Owner:  ownerID,
			Role:   string(role),
		})
	})
}

// bulk fans one request per selected task out concurrently, rate-limited, and
// reloads once after all have settled. A failure in any single request
// surfaces as one generic error.
func (c *Coordinator) bulk(ctx context.Context, ids []int64, confirmPrompt string, op func(context.Context, models.Task) error) error {
	if len(ids) == 0 {
		return nil
	}
	if confirmPrompt != "" && !c.confirmer.Confirm(confirmPrompt) {
		return nil
	}

	var g errgroup.Group
	for _, id := range ids {
		task, ok := c.cache.Find(id)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			if err := op(ctx, task); err != nil {
				logging.Logger.Warnf("Event ID: BULK_ITEM_FAILED, Description: Bulk operation failed for task %d: %v", task.ID, err)
				return err
			}
			return nil
		})
	}

	opErr := g.Wait()
	if reloadErr := c.cache.Reload(ctx); reloadErr != nil {
		logging.Logger.Warnf("Event ID: BULK_RELOAD_FAILED, Description: Reload after bulk operation failed: %v", reloadErr)
	}
	if opErr != nil {
		return ErrBulkFailed
	}
	return nil
}
