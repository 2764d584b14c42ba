package api

import (
	"fmt"
	"strings"
)

// TransportError wraps a network-level failure: the request never produced an
// HTTP response. These are retryable from the caller's point of view.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthError means the backend rejected the credentials or token. After a
// failed refresh attempt the client surfaces this and the session must be
// re-established interactively.
type AuthError struct {
	StatusCode int
	Detail     string
}

func (e *AuthError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("authentication failed (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("authentication failed (%d)", e.StatusCode)
}

// ValidationError carries the backend's per-field rejection messages from a
// 400 response.
type ValidationError struct {
	Fields map[string][]string
	Detail string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Detail != "" {
			return "validation failed: " + e.Detail
		}
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// StatusError covers any other non-2xx response (404, 5xx, unexpected codes).
type StatusError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.Endpoint)
}
