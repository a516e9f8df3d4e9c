// Package cache holds the most recently fetched page of tasks for the active
// view. It is the only state the client core manages: every mutation is
// followed by a full reload through Load, never by an in-place patch.
package cache

import (
	"context"
	"sync"

	"github.com/yashdvishwakarma/tasksaas/logging"
	"github.com/yashdvishwakarma/tasksaas/models"
)

// Loader fetches one page of tasks. Implemented by the client package.
type Loader interface {
	GetTasks(ctx context.Context, page, limit int) (*models.Paginated[models.Task], error)
}

// Meta is the pagination state of the cached page.
type Meta struct {
	Page  int
	Limit int
	Total int
}

// Collection is the task collection cache. Loads are tagged with a
// monotonically increasing sequence number; a response that resolves after a
// newer one has already been applied is discarded, so rapid consecutive
// reloads can no longer leave stale data on screen.
type Collection struct {
	loader Loader

	mu          sync.Mutex
	tasks       []models.Task
	meta        Meta
	nextSeq     uint64
	appliedSeq  uint64
}

func NewCollection(loader Loader) *Collection {
	return &Collection{loader: loader, meta: Meta{Page: 1, Limit: 10}}
}

// Load fetches a page and replaces the cached array and pagination metadata.
// On failure the previous cache is left untouched and the typed error is
// returned to the view. A response tagged at or below the last applied
// sequence is discarded.
func (c *Collection) Load(ctx context.Context, page, limit int) error {
	c.mu.Lock()
	c.nextSeq++
	seq := c.nextSeq
	c.mu.Unlock()

	result, err := c.loader.GetTasks(ctx, page, limit)
	if err != nil {
		logging.Logger.Warnf("Event ID: TASK_CACHE_LOAD_FAILED, Description: Task reload (seq %d) failed: %v", seq, err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.appliedSeq {
		// A newer load already resolved; this response is stale.
		logging.Logger.Infof("Event ID: TASK_CACHE_STALE_RESPONSE, Description: Discarding stale task reload (seq %d, applied %d)", seq, c.appliedSeq)
		return nil
	}
	c.appliedSeq = seq
	c.tasks = result.Data
	c.meta = Meta{Page: result.Page, Limit: result.Limit, Total: result.Total}
	return nil
}

// Reload refetches the current page with the current page size.
func (c *Collection) Reload(ctx context.Context) error {
	c.mu.Lock()
	page, limit := c.meta.Page, c.meta.Limit
	c.mu.Unlock()
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}
	return c.Load(ctx, page, limit)
}

// Reset drops the cached tasks and pagination state. The logout coordinator
// calls this so a dead session leaves nothing on screen. Sequence counters are
// kept so an in-flight load from before the reset still counts as stale.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appliedSeq = c.nextSeq
	c.tasks = nil
	c.meta = Meta{Page: 1, Limit: 10}
}

// Snapshot returns a copy of the cached tasks for derivation. Callers own the
// returned slice.
func (c *Collection) Snapshot() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Find returns the cached task with the given id.
func (c *Collection) Find(id int64) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Meta returns the pagination metadata of the last applied load.
func (c *Collection) Meta() Meta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta
}
