package models

import (
	"encoding/json"
	"fmt"
)

// Error codes produced by the API gateway client. Everything that crosses the
// HTTP boundary is classified as exactly one of these.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNetworkError = "NETWORK_ERROR"
	CodeUnknownError = "UNKNOWN_ERROR"
	CodeClientError  = "CLIENT_ERROR"
)

// APIError is the single error type surfaced to callers of the client package.
type APIError struct {
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Details    json.RawMessage `json:"details,omitempty"`
	StatusCode int             `json:"-"`
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Envelope is the standard response wrapper: lists come back as
// {data, total, page, limit}, failures as {error: {code, message, details}}.
type Envelope struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *APIError       `json:"error,omitempty"`
	Total int             `json:"total,omitempty"`
	Page  int             `json:"page,omitempty"`
	Limit int             `json:"limit,omitempty"`
}

// Paginated is a decoded list payload plus its paging metadata.
type Paginated[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Session is the client-held authentication context: the bearer token plus a
// denormalized copy of the profile it was issued for.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
