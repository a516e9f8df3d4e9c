package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/yashdvishwakarma/tasksaas/logging"
)

// Well-known routes the coordinator needs to recognize.
const (
	RouteLogin = "/login"
	RouteRoot  = "/"
)

// LogoutFunc is the best-effort server-side logout call. Supplied as a
// function to keep this package from depending on the client package.
type LogoutFunc func(ctx context.Context) error

// Redirector receives the final hard redirect. Replace semantics: the caller
// must not be able to navigate "back" into the dead session.
type Redirector interface {
	Replace(route string)
}

// Ephemeral is in-process state that must not survive a logout, such as the
// task collection cache.
type Ephemeral interface {
	Reset()
}

// Coordinator tears down client-side authentication state. The same sequence
// runs for an explicit logout and for a forced logout after a 401.
type Coordinator struct {
	store      *Store
	logoutAPI  LogoutFunc
	redirector Redirector
	ephemeral  []Ephemeral
	inFlight   atomic.Bool
}

func NewCoordinator(store *Store, logoutAPI LogoutFunc, redirector Redirector) *Coordinator {
	return &Coordinator{store: store, logoutAPI: logoutAPI, redirector: redirector}
}

// AttachEphemeral registers state to be reset during logout, after the store
// is cleared and before the redirect.
func (c *Coordinator) AttachEphemeral(state ...Ephemeral) {
	c.ephemeral = append(c.ephemeral, state...)
}

// Logout runs the teardown sequence in order:
//  1. best-effort server-side logout (failures swallowed),
//  2. record the current route for post-login return, unless it is the login
//     route or root,
//  3. remove all auth keys from the persistent store,
//  4. reset attached ephemeral state (the task cache),
//  5. redirect (replace) to the login route.
func (c *Coordinator) Logout(ctx context.Context, currentRoute string) {
	// The server-side logout call can itself come back 401 and re-fire the
	// forced-logout hook; a teardown already in progress must not restart.
	if !c.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer c.inFlight.Store(false)

	logging.Logger.Infof("Event ID: LOGOUT_START, Description: Logout initiated from route '%s'", currentRoute)

	if c.logoutAPI != nil && c.store.Token() != "" {
		if err := c.logoutAPI(ctx); err != nil {
			// Server-side invalidation is best effort; local teardown proceeds.
			logging.Logger.Warnf("Event ID: LOGOUT_API_FAILED, Description: Server-side logout failed: %v", err)
		}
	}

	if currentRoute != RouteLogin && currentRoute != RouteRoot && currentRoute != "" {
		if err := c.store.Set(KeyRedirectAfter, currentRoute); err != nil {
			logging.Logger.Warnf("Event ID: LOGOUT_REDIRECT_STORE_FAILED, Description: Could not store redirect path '%s': %v", currentRoute, err)
		}
	}

	if err := c.store.ClearAuth(); err != nil {
		logging.Logger.Errorf("Event ID: LOGOUT_CLEAR_FAILED, Description: Could not clear session keys: %v", err)
	}

	for _, state := range c.ephemeral {
		state.Reset()
	}

	if c.redirector != nil {
		c.redirector.Replace(RouteLogin)
	}
	logging.Logger.Infof("Event ID: LOGOUT_COMPLETE, Description: Session cleared, redirected to %s", RouteLogin)
}

// ExpireIfStale runs the logout sequence when the stored token has already
// expired, so the caller never sends a request that is doomed to 401. Returns
// whether the session was torn down.
func (c *Coordinator) ExpireIfStale(ctx context.Context, now time.Time, currentRoute string) bool {
	if !c.store.IsAuthenticated() || !c.store.TokenExpired(now) {
		return false
	}
	logging.Logger.Infof("Event ID: SESSION_EXPIRED, Description: Stored token expired, tearing the session down")
	c.Logout(ctx, currentRoute)
	return true
}

// ConsumeRedirect returns the stored post-login route and removes it, so the
// redirect fires at most once.
func (c *Coordinator) ConsumeRedirect() (string, bool) {
	route, ok := c.store.Get(KeyRedirectAfter)
	if !ok || route == "" {
		return "", false
	}
	if err := c.store.Delete(KeyRedirectAfter); err != nil {
		logging.Logger.Warnf("Event ID: LOGOUT_REDIRECT_CONSUME_FAILED, Description: Could not remove stored redirect: %v", err)
	}
	return route, true
}
