package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashdvishwakarma/tasksaas/models"
)

type recordingRedirector struct {
	routes []string
}

func (r *recordingRedirector) Replace(route string) { r.routes = append(r.routes, route) }

func TestLogoutSequenceOrder(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveLogin("tok", models.User{ID: 1}))

	var steps []string
	logoutAPI := func(ctx context.Context) error {
		// The server call goes out while the local session is still intact.
		assert.Equal(t, "tok", store.Token())
		steps = append(steps, "api")
		return nil
	}
	redirector := redirectFunc(func(route string) {
		// By redirect time the auth keys are gone and the route is stored.
		assert.False(t, store.IsAuthenticated())
		saved, _ := store.Get(KeyRedirectAfter)
		assert.Equal(t, "/tasks/42", saved)
		steps = append(steps, "redirect:"+route)
	})

	c := NewCoordinator(store, logoutAPI, redirector)
	c.Logout(context.Background(), "/tasks/42")

	assert.Equal(t, []string{"api", "redirect:" + RouteLogin}, steps)
}

type redirectFunc func(route string)

func (f redirectFunc) Replace(route string) { f(route) }

func TestLogoutAPIFailureStillTearsDown(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveLogin("tok", models.User{ID: 1}))

	redirector := &recordingRedirector{}
	c := NewCoordinator(store, func(ctx context.Context) error {
		return errors.New("gateway timeout")
	}, redirector)

	c.Logout(context.Background(), "/dashboard")

	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, []string{RouteLogin}, redirector.routes)
}

func TestLogoutSkipsAPIWhenNoToken(t *testing.T) {
	store := newTestStore(t)

	called := false
	c := NewCoordinator(store, func(ctx context.Context) error {
		called = true
		return nil
	}, &recordingRedirector{})

	c.Logout(context.Background(), "/dashboard")
	assert.False(t, called)
}

func TestLogoutDoesNotStoreLoginOrRootRoute(t *testing.T) {
	for _, route := range []string{RouteLogin, RouteRoot, ""} {
		store := newTestStore(t)
		require.NoError(t, store.SaveLogin("tok", models.User{ID: 1}))

		c := NewCoordinator(store, nil, &recordingRedirector{})
		c.Logout(context.Background(), route)

		_, ok := store.Get(KeyRedirectAfter)
		assert.False(t, ok, "route %q should not be stored", route)
	}
}

type resettable struct {
	resets int
	during func()
}

func (r *resettable) Reset() {
	r.resets++
	if r.during != nil {
		r.during()
	}
}

func TestLogoutResetsEphemeralStateBeforeRedirect(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveLogin("tok", models.User{ID: 1}))

	redirector := &recordingRedirector{}
	ephemeral := &resettable{during: func() {
		assert.Empty(t, redirector.routes, "reset must run before the redirect")
	}}

	c := NewCoordinator(store, nil, redirector)
	c.AttachEphemeral(ephemeral)
	c.Logout(context.Background(), "/dashboard")

	assert.Equal(t, 1, ephemeral.resets)
	assert.Equal(t, []string{RouteLogin}, redirector.routes)
}

func TestExpireIfStaleTearsDownExpiredSession(t *testing.T) {
	now := time.Now()
	store := newTestStore(t)
	require.NoError(t, store.SaveLogin(signedToken(t, now.Add(-time.Minute)), models.User{ID: 1}))

	redirector := &recordingRedirector{}
	c := NewCoordinator(store, nil, redirector)

	assert.True(t, c.ExpireIfStale(context.Background(), now, "/dashboard"))
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, []string{RouteLogin}, redirector.routes)
}

func TestExpireIfStaleKeepsFreshSession(t *testing.T) {
	now := time.Now()
	store := newTestStore(t)
	require.NoError(t, store.SaveLogin(signedToken(t, now.Add(time.Hour)), models.User{ID: 1}))

	redirector := &recordingRedirector{}
	c := NewCoordinator(store, nil, redirector)

	assert.False(t, c.ExpireIfStale(context.Background(), now, "/dashboard"))
	assert.True(t, store.IsAuthenticated())
	assert.Empty(t, redirector.routes)

	// Logged out entirely: nothing to expire.
	require.NoError(t, store.ClearAuth())
	assert.False(t, c.ExpireIfStale(context.Background(), now, "/dashboard"))
	assert.Empty(t, redirector.routes)
}

func TestConsumeRedirectFiresOnce(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeyRedirectAfter, "/reports"))

	c := NewCoordinator(store, nil, &recordingRedirector{})

	route, ok := c.ConsumeRedirect()
	require.True(t, ok)
	assert.Equal(t, "/reports", route)

	_, ok = c.ConsumeRedirect()
	assert.False(t, ok)
}
