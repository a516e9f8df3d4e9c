package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashdvishwakarma/tasksaas/logging"
	"github.com/yashdvishwakarma/tasksaas/models"
	"github.com/yashdvishwakarma/tasksaas/session"
)

func init() {
	logging.Silence()
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func asAPIError(t *testing.T, err error) *models.APIError {
	t.Helper()
	require.Error(t, err)
	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":[],"total":0,"page":1,"limit":10}`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok-123"))
	_, err := c.GetTasks(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoAuthHeaderWhenLoggedOut(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":[],"total":0,"page":1,"limit":10}`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken(""))
	_, err := c.GetTasks(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedFiresForcedLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"token revoked"}}`))
	}))
	defer server.Close()

	var hookRoute string
	hookCalls := 0
	c := New(server.URL, staticToken("expired"),
		WithRouteProvider(func() string { return "/dashboard" }),
		WithUnauthorizedHandler(func(ctx context.Context, route string) {
			hookCalls++
			hookRoute = route
		}),
	)

	_, err := c.GetTasks(context.Background(), 1, 10)
	apiErr := asAPIError(t, err)
	assert.Equal(t, models.CodeUnauthorized, apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "token revoked", apiErr.Message)
	assert.Equal(t, 1, hookCalls)
	assert.Equal(t, "/dashboard", hookRoute)
}

func TestUnauthorizedOnLoginRouteSkipsHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"bad credentials"}}`))
	}))
	defer server.Close()

	hookCalls := 0
	c := New(server.URL, staticToken(""),
		WithRouteProvider(func() string { return session.RouteLogin }),
		WithUnauthorizedHandler(func(ctx context.Context, route string) { hookCalls++ }),
	)

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	apiErr := asAPIError(t, err)
	assert.Equal(t, models.CodeUnauthorized, apiErr.Code)
	assert.Zero(t, hookCalls, "a failed login must not trigger the logout sequence")
}

func TestNetworkErrorWhenServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := New(server.URL, staticToken("tok"))
	_, err := c.GetTasks(context.Background(), 1, 10)
	apiErr := asAPIError(t, err)
	assert.Equal(t, models.CodeNetworkError, apiErr.Code)
	assert.Zero(t, apiErr.StatusCode)
}

func TestEnvelopeErrorCodePassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"CLIENT_ERROR","message":"title is required"}}`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok"))
	_, err := c.CreateTask(context.Background(), models.CreateTaskRequest{})
	apiErr := asAPIError(t, err)
	assert.Equal(t, models.CodeClientError, apiErr.Code)
	assert.Equal(t, "title is required", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestUnknownErrorWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok"))
	_, err := c.GetTasks(context.Background(), 1, 10)
	apiErr := asAPIError(t, err)
	assert.Equal(t, models.CodeUnknownError, apiErr.Code)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestGetTasksDecodesPageMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, endpointGetTasks, r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"data":[{"id":11,"title":"a"},{"id":12,"title":"b"}],"total":42,"page":2,"limit":5}`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok"))
	page, err := c.GetTasks(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(11), page.Data[0].ID)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Limit)
}

func TestCreateTaskUnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, endpointCreateTask, r.URL.Path)
		w.Write([]byte(`{"data":{"id":7,"title":"Ship it","status":0}}`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok"))
	task, err := c.CreateTask(context.Background(), models.CreateTaskRequest{Title: "Ship it"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), task.ID)
	assert.Equal(t, "Ship it", task.Title)
}

// An expired token mid-session tears the whole session down: the store is
// cleared, the user lands on the login route, and the original call still
// fails with the typed error.
func TestForcedLogoutClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`))
	}))
	defer server.Close()

	store, err := session.OpenInMemory()
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.SaveLogin("stale-token", models.User{ID: 1, Email: "a@b.com"}))
	require.NoError(t, store.Set(session.KeyThemeMode, "dark"))

	redirector := &fakeRedirector{}
	var coordinator *session.Coordinator

	c := New(server.URL, store,
		WithRouteProvider(func() string { return "/dashboard" }),
		WithUnauthorizedHandler(func(ctx context.Context, route string) {
			coordinator.Logout(ctx, route)
		}),
	)
	coordinator = session.NewCoordinator(store, c.Logout, redirector)

	_, err = c.GetTasks(context.Background(), 1, 10)
	apiErr := asAPIError(t, err)
	assert.Equal(t, models.CodeUnauthorized, apiErr.Code)

	assert.False(t, store.IsAuthenticated())
	_, ok := store.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, []string{session.RouteLogin}, redirector.routes)

	// Preferences survive, and the interrupted route is stored for one return.
	theme, ok := store.Get(session.KeyThemeMode)
	require.True(t, ok)
	assert.Equal(t, "dark", theme)
	route, ok := coordinator.ConsumeRedirect()
	require.True(t, ok)
	assert.Equal(t, "/dashboard", route)
	_, ok = coordinator.ConsumeRedirect()
	assert.False(t, ok)
}

type fakeRedirector struct {
	routes []string
}

func (f *fakeRedirector) Replace(route string) { f.routes = append(f.routes, route) }
