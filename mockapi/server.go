// Package mockapi is an in-memory stand-in for the TaskSaaS backend. It
// implements the same REST contract the deployed API exposes, so the client
// packages can be exercised locally and in tests without a network. It is a
// test double, not a backend: nothing here persists.
package mockapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/yashdvishwakarma/tasksaas/logging"
	"github.com/yashdvishwakarma/tasksaas/models"
)

type Server struct {
	store     *store
	blacklist *blacklist
	router    *mux.Router
}

func NewServer() *Server {
	srv := &Server{
		store:     newStore(),
		blacklist: newBlacklist(),
	}

	r := mux.NewRouter()

	r.HandleFunc("/auth/register", srv.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", srv.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", srv.handleLogout).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(srv.authMiddleware)
	protected.HandleFunc("/task/gettask", srv.handleGetTasks).Methods(http.MethodGet, http.MethodPost)
	protected.HandleFunc("/task/createtask", srv.handleCreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/task/Update", srv.handleUpdateTask).Methods(http.MethodPost)
	protected.HandleFunc("/task/delete", srv.handleDeleteTask).Methods(http.MethodPost)
	protected.HandleFunc("/User/me", srv.handleMe).Methods(http.MethodPost)
	protected.HandleFunc("/User/updateprofile/{id}", srv.handleUpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/User/update-password", srv.handleChangePassword).Methods(http.MethodPost)
	protected.HandleFunc("/user/userlist", srv.handleListUsers).Methods(http.MethodGet)
	protected.HandleFunc("/user/updatestatus/{id}", srv.handleUpdateUserStatus).Methods(http.MethodPut)
	protected.HandleFunc("/organizations", srv.handleListOrgs).Methods(http.MethodGet)
	protected.HandleFunc("/organizations", srv.handleCreateOrg).Methods(http.MethodPost)
	protected.HandleFunc("/organizations/{id}", srv.handleUpdateOrg).Methods(http.MethodPut)
	protected.HandleFunc("/organizations/{id}", srv.handleDeleteOrg).Methods(http.MethodDelete)

	srv.router = r
	return srv
}

// Router exposes the handler for httptest servers and local serving.
func (srv *Server) Router() http.Handler {
	return srv.router
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// authMiddleware rejects requests without a valid, unrevoked bearer token and
// stashes the claims on the request context.
func (srv *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authorization header missing")
			return
		}
		if srv.blacklist.IsRevoked(token) {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Token has been revoked")
			return
		}
		claims, err := validateToken(token)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}
