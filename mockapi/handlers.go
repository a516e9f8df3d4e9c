package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/yashdvishwakarma/tasksaas/logging"
	"github.com/yashdvishwakarma/tasksaas/models"
)

type contextKey string

const claimsKey contextKey = "claims"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError emits the standard {error: {code, message}} envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.Envelope{Error: &models.APIError{Code: code, Message: message}})
}

func writePage[T any](w http.ResponseWriter, data []T, total, page, limit int) {
	writeJSON(w, http.StatusOK, models.Paginated[T]{Data: data, Total: total, Page: page, Limit: limit})
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// --- auth handlers ---

func (srv *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Email and password are required")
		return
	}
	if _, exists := srv.store.userByEmail(req.Email); exists {
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "HASH_FAILED", "Could not process password")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := srv.store.addUser(models.User{FullName: req.FullName, Email: req.Email, Role: role}, hash)

	token, err := generateToken(&user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "TOKEN_FAILED", "Could not issue token")
		return
	}
	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User '%s' registered with id %d", user.Email, user.ID)
	writeJSON(w, http.StatusOK, models.AuthResponse{ID: user.ID, FullName: user.FullName, Email: user.Email, Role: user.Role, Token: token})
}

func (srv *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}

	rec, ok := srv.store.userByEmail(req.Email)
	if !ok || bcrypt.CompareHashAndPassword(rec.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid email or password")
		return
	}
	if !rec.user.IsActive {
		writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Account is deactivated")
		return
	}

	token, err := generateToken(&rec.user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "TOKEN_FAILED", "Could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{ID: rec.user.ID, FullName: rec.user.FullName, Email: rec.user.Email, Role: rec.user.Role, Token: token})
}

func (srv *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token != "" {
		srv.blacklist.Revoke(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- task handlers ---

func (srv *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	tasks, total := srv.store.taskPage(page, limit)
	writePage(w, tasks, total, page, limit)
}

func (srv *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Title is required")
		return
	}

	task := srv.store.addTask(models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		OwnerID:     req.Owner,
		AssigneeID:  req.AssigneeID,
	})
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %d '%s' created", task.ID, task.Title)
	writeJSON(w, http.StatusOK, task)
}

func (srv *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}
	updated, ok := srv.store.replaceTask(task)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (srv *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}
	if !srv.store.deleteTask(req.ID) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Task not found")
		return
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %d deleted", req.ID)
	w.WriteHeader(http.StatusNoContent)
}

// --- profile handlers ---

func (srv *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}
	rec, ok := srv.store.userByID(req.UserID)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	user := rec.user
	user.Password = ""
	writeJSON(w, http.StatusOK, user)
}

func (srv *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "User id must be numeric")
		return
	}
	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}

	var updated models.User
	ok := srv.store.updateUser(id, func(rec *userRecord) {
		if req.FullName != "" {
			rec.user.FullName = req.FullName
		}
		if req.Email != "" {
			rec.user.Email = req.Email
		}
		updated = rec.user
	})
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	updated.Password = ""
	writeJSON(w, http.StatusOK, updated)
}

func (srv *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(claimsKey).(*Claims)
	if !ok {
		writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Missing token")
		return
	}
	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}

	rec, found := srv.store.userByID(claims.UserID)
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	if bcrypt.CompareHashAndPassword(rec.hash, []byte(req.CurrentPassword)) != nil {
		writeError(w, http.StatusBadRequest, "WRONG_PASSWORD", "Current password is incorrect")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "HASH_FAILED", "Could not process password")
		return
	}
	srv.store.updateUser(claims.UserID, func(rec *userRecord) { rec.hash = hash })
	w.WriteHeader(http.StatusNoContent)
}

// --- user management handlers (admin) ---

// requireAdmin pulls the claims off the context and rejects non-admin callers.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*Claims, bool) {
	claims, ok := r.Context().Value(claimsKey).(*Claims)
	if !ok {
		writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Missing token")
		return nil, false
	}
	if claims.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin role required")
		return nil, false
	}
	return claims, true
}

func (srv *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	page, limit := pageParams(r)
	users, total := srv.store.userPage(page, limit)
	writePage(w, users, total, page, limit)
}

func (srv *Server) handleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "User id must be numeric")
		return
	}
	if id == claims.UserID {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "You cannot deactivate your own account")
		return
	}
	var req models.UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}

	var updated models.User
	found := srv.store.updateUser(id, func(rec *userRecord) {
		rec.user.IsActive = req.IsActive
		updated = rec.user
	})
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	logging.Logger.Infof("Event ID: USER_STATUS_CHANGED, Description: User %d active set to %t by admin %d", id, req.IsActive, claims.UserID)
	writeJSON(w, http.StatusOK, updated)
}

// --- organization handlers ---

func (srv *Server) handleListOrgs(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	orgs, total := srv.store.orgPage(page, limit)
	for i := range orgs {
		orgs[i].UserCount = srv.store.userCount(orgs[i].ID)
	}
	writePage(w, orgs, total, page, limit)
}

func (srv *Server) handleCreateOrg(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Organization name is required")
		return
	}
	org := srv.store.addOrg(req.Name, req.Plan)
	writeJSON(w, http.StatusOK, org)
}

func (srv *Server) handleUpdateOrg(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Organization id must be numeric")
		return
	}
	var req models.UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return
	}
	org, ok := srv.store.updateOrg(id, func(org *models.Organization) {
		if req.Name != "" {
			org.Name = req.Name
		}
		if req.Plan != "" {
			org.Plan = req.Plan
		}
		if req.IsActive != nil {
			org.IsActive = *req.IsActive
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Organization not found")
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (srv *Server) handleDeleteOrg(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Organization id must be numeric")
		return
	}
	if !srv.store.deleteOrg(id) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Organization not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
