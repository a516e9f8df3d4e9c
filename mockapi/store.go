package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yashdvishwakarma/tasksaas/models"
	"github.com/yashdvishwakarma/tasksaas/utils"
)

// userRecord couples a profile with its bcrypt password hash. The hash never
// leaves this package.
type userRecord struct {
	user models.User
	hash []byte
}

// store is the in-memory state behind the mock server. Ids are assigned
// monotonically, matching the contract the derivation pipeline relies on
// (newest task has the highest id).
type store struct {
	mu         sync.Mutex
	users      map[int64]*userRecord
	emailIndex map[string]int64
	tasks      map[int64]models.Task
	orgs       map[int64]models.Organization
	nextUser   int64
	nextTask   int64
	nextOrg    int64
}

func newStore() *store {
	return &store{
		users:      make(map[int64]*userRecord),
		emailIndex: make(map[string]int64),
		tasks:      make(map[int64]models.Task),
		orgs:       make(map[int64]models.Organization),
	}
}

func (s *store) addUser(user models.User, hash []byte) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUser++
	user.ID = s.nextUser
	user.IsActive = true
	s.users[user.ID] = &userRecord{user: user, hash: hash}
	s.emailIndex[strings.ToLower(user.Email)] = user.ID
	return user
}

func (s *store) userByEmail(email string) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, false
	}
	return s.users[id], true
}

func (s *store) userByID(id int64) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	return rec, ok
}

func (s *store) updateUser(id int64, update func(*userRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return false
	}
	update(rec)
	return true
}

// userPage returns one page of profiles ordered by id plus the total count.
// Password hashes stay behind; the User blobs carry no password.
func (s *store) userPage(page, limit int) ([]models.User, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.User, 0, len(s.users))
	for _, rec := range s.users {
		all = append(all, rec.user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []models.User{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total
}

func (s *store) addTask(task models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTask++
	task.ID = s.nextTask
	now := time.Now()
	task.CreatedAt = &now
	task.UpdatedAt = &now
	s.tasks[task.ID] = task
	return task
}

func (s *store) replaceTask(task models.Task) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[task.ID]
	if !ok {
		return models.Task{}, false
	}
	// Full-record replace; only the server-owned fields survive.
	task.CreatedAt = existing.CreatedAt
	now := time.Now()
	task.UpdatedAt = &now
	s.tasks[task.ID] = task
	return task, true
}

func (s *store) deleteTask(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// taskPage returns one page of tasks ordered by id plus the total count.
func (s *store) taskPage(page, limit int) ([]models.Task, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []models.Task{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total
}

func (s *store) addOrg(name string, plan models.Plan) models.Organization {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOrg++
	now := time.Now()
	if plan == "" {
		plan = models.PlanFree
	}
	org := models.Organization{
		ID:        s.nextOrg,
		Name:      name,
		Slug:      utils.SlugPreview(name),
		Plan:      plan,
		IsActive:  true,
		CreatedAt: &now,
	}
	s.orgs[org.ID] = org
	return org
}

func (s *store) updateOrg(id int64, update func(*models.Organization)) (models.Organization, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	org, ok := s.orgs[id]
	if !ok {
		return models.Organization{}, false
	}
	update(&org)
	org.Slug = utils.SlugPreview(org.Name)
	s.orgs[id] = org
	return org, true
}

func (s *store) deleteOrg(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[id]; !ok {
		return false
	}
	delete(s.orgs, id)
	return true
}

func (s *store) orgPage(page, limit int) ([]models.Organization, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.Organization, 0, len(s.orgs))
	for _, o := range s.orgs {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []models.Organization{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total
}

// userCount tallies users per organization for the admin listing.
func (s *store) userCount(orgID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, rec := range s.users {
		if rec.user.OrganizationID == orgID {
			count++
		}
	}
	return count
}
