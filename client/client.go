package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yashdvishwakarma/tasksaas/logging"
	"github.com/yashdvishwakarma/tasksaas/models"
	"github.com/yashdvishwakarma/tasksaas/session"
)

// TokenSource supplies the current bearer token. The session store implements
// this; requests go out without an Authorization header when the token is "".
type TokenSource interface {
	Token() string
}

// UnauthorizedHandler is invoked when any request comes back 401 while the
// client is not on the login route. It runs the full logout sequence; the
// in-flight call still returns the UNAUTHORIZED error so callers cannot
// proceed.
type UnauthorizedHandler func(ctx context.Context, currentRoute string)

// Client is the API gateway client: a thin HTTP wrapper around the fixed set
// of REST endpoints, with bearer-token attachment and a single typed error for
// every failure mode. No retry policy exists; every failure surfaces once.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	breaker        *gobreaker.CircuitBreaker
	onUnauthorized UnauthorizedHandler
	currentRoute   func() string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport. Tests use this.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUnauthorizedHandler installs the forced-logout hook.
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// WithRouteProvider tells the client which logical route triggered a request,
// so a 401 on the login route itself does not loop into another logout.
func WithRouteProvider(fn func() string) Option {
	return func(c *Client) { c.currentRoute = fn }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		tokens:       tokens,
		currentRoute: func() string { return "" },
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TaskSaaSApiCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError builds the single error type everything in this package returns.
func apiError(code, message string, details json.RawMessage, status int) *models.APIError {
	return &models.APIError{Code: code, Message: message, Details: details, StatusCode: status}
}

// do performs one HTTP exchange and maps every failure into an APIError:
// UNAUTHORIZED for 401, NETWORK_ERROR when no response arrived (including an
// open breaker), UNKNOWN_ERROR for an HTTP error without the standard
// envelope, CLIENT_ERROR for failures before a request was even sent.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apiError(models.CodeClientError, fmt.Sprintf("could not encode request body: %v", err), nil, 0)
		}
		reader = bytes.NewReader(payload)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return apiError(models.CodeClientError, fmt.Sprintf("could not build request: %v", err), nil, 0)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		// The request was sent (or refused by the breaker) and no response
		// arrived; both look the same to the caller.
		return apiError(models.CodeNetworkError, "Network error. Please check your connection.", nil, 0)
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiError(models.CodeNetworkError, "Network error. Please check your connection.", nil, 0)
	}

	if resp.StatusCode >= 400 {
		return c.mapHTTPError(ctx, resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return decodeBody(raw, out)
}

// mapHTTPError turns an HTTP error response into the typed error and fires
// the forced-logout hook on 401.
func (c *Client) mapHTTPError(ctx context.Context, status int, raw []byte) error {
	var envelope models.Envelope
	_ = json.Unmarshal(raw, &envelope)

	if status == http.StatusUnauthorized {
		message := "You are not authorized. Please login."
		var details json.RawMessage
		if envelope.Error != nil {
			message = envelope.Error.Message
			details = envelope.Error.Details
		}
		apiErr := apiError(models.CodeUnauthorized, message, details, status)
		route := c.currentRoute()
		if route != session.RouteLogin && c.onUnauthorized != nil {
			logging.Logger.Warnf("Event ID: UNAUTHORIZED_RESPONSE, Description: 401 received on route '%s', forcing logout", route)
			c.onUnauthorized(ctx, route)
		}
		return apiErr
	}

	if envelope.Error != nil && envelope.Error.Code != "" {
		return apiError(envelope.Error.Code, envelope.Error.Message, envelope.Error.Details, status)
	}
	return apiError(models.CodeUnknownError, "An unexpected error occurred", nil, status)
}

// decodeBody accepts both response shapes: the {data, ...} envelope and a
// bare payload. Paginated targets consume the whole envelope (they carry the
// paging metadata), so the unwrap is attempted first and the raw body is the
// fallback.
func decodeBody(raw []byte, out any) error {
	var envelope models.Envelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err == nil {
			return nil
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apiError(models.CodeUnknownError, fmt.Sprintf("malformed server response: %v", err), nil, 0)
	}
	return nil
}

// --- auth ---

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, endpointLogin, nil, models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, endpointRegister, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the server-side session. Callers treat failures as
// non-fatal; the session coordinator swallows them.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, endpointLogout, nil, nil, nil)
}

// --- tasks ---

// GetTasks lists one page of tasks. The paging metadata comes back alongside
// the data so the collection cache can track totals.
func (c *Client) GetTasks(ctx context.Context, page, limit int) (*models.Paginated[models.Task], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var resp models.Paginated[models.Task]
	if err := c.do(ctx, http.MethodGet, endpointGetTasks, query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, endpointCreateTask, nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask replaces the full record; the API has no patch semantics.
func (c *Client) UpdateTask(ctx context.Context, task models.Task) (*models.Task, error) {
	var updated models.Task
	if err := c.do(ctx, http.MethodPost, endpointUpdateTask, nil, task, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteTask(ctx context.Context, req models.DeleteTaskRequest) error {
	return c.do(ctx, http.MethodPost, endpointDeleteTask, nil, req, nil)
}

// --- profile ---

func (c *Client) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	body := map[string]int64{"userId": userID}
	if err := c.do(ctx, http.MethodPost, endpointProfile, nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	path := fmt.Sprintf("%s/%d", endpointUpdateProfile, userID)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPost, endpointChangePassword, nil, req, nil)
}

// --- user management (admin) ---

// ListUsers returns one page of accounts. The server rejects non-admin
// callers.
func (c *Client) ListUsers(ctx context.Context, page, limit int) (*models.Paginated[models.User], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var resp models.Paginated[models.User]
	if err := c.do(ctx, http.MethodGet, endpointUserList, query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetUserActive activates or deactivates an account. Deactivated accounts can
// no longer log in.
func (c *Client) SetUserActive(ctx context.Context, id int64, active bool) (*models.User, error) {
	var user models.User
	path := fmt.Sprintf("%s/%d", endpointUserStatus, id)
	if err := c.do(ctx, http.MethodPut, path, nil, models.UpdateUserStatusRequest{IsActive: active}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- organizations ---

func (c *Client) ListOrganizations(ctx context.Context, page, limit int) (*models.Paginated[models.Organization], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var resp models.Paginated[models.Organization]
	if err := c.do(ctx, http.MethodGet, endpointOrganizations, query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateOrganization(ctx context.Context, req models.CreateOrganizationRequest) (*models.Organization, error) {
	var org models.Organization
	if err := c.do(ctx, http.MethodPost, endpointOrganizations, nil, req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (c *Client) UpdateOrganization(ctx context.Context, id int64, req models.UpdateOrganizationRequest) (*models.Organization, error) {
	var org models.Organization
	path := fmt.Sprintf("%s/%d", endpointOrganizations, id)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (c *Client) DeleteOrganization(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d", endpointOrganizations, id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
