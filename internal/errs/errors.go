// Package errs defines the error taxonomy shared by the API client, the
// services and the HTTP handlers.
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinels for each error kind. Use errors.Is against these.
var (
	ErrNetwork    = errors.New("network error")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("authentication required")
	ErrValidation = errors.New("validation failed")
)

// APIError carries the kind of failure plus whatever the backend said.
type APIError struct {
	Kind       error             // one of the sentinels above
	StatusCode int               // backend status, 0 when no response arrived
	Message    string            // server-provided message, shown verbatim to users
	Fields     map[string]string // per-field validation messages
	Timeout    bool
	Cause      error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *APIError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Network wraps a transport failure.
func Network(cause error, timeout bool) *APIError {
	return &APIError{Kind: ErrNetwork, Cause: cause, Timeout: timeout}
}

// NotFound reports an absent resource.
func NotFound(message string) *APIError {
	return &APIError{Kind: ErrNotFound, StatusCode: http.StatusNotFound, Message: message}
}

// Auth reports a missing or rejected credential.
func Auth(message string) *APIError {
	return &APIError{Kind: ErrAuth, StatusCode: http.StatusUnauthorized, Message: message}
}

// Validation reports invalid input. fields may be nil.
func Validation(message string, fields map[string]string) *APIError {
	return &APIError{Kind: ErrValidation, Message: message, Fields: fields}
}

// FromStatus maps a non-2xx backend response to the taxonomy.
func FromStatus(status int, message string) *APIError {
	var kind error
	switch {
	case status == http.StatusNotFound:
		kind = ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrAuth
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		kind = ErrValidation
	default:
		kind = ErrNetwork
	}
	return &APIError{Kind: kind, StatusCode: status, Message: message}
}

// IsRetryable reports whether the user may simply try the action again.
// Only network failures qualify; nothing in this codebase retries on its own.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// Message returns the text to show a user for err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Timeout {
			return "The request timed out. Please try again."
		}
		switch apiErr.Kind {
		case ErrNetwork:
			return "Could not reach the server. Please try again."
		case ErrNotFound:
			return "The requested resource was not found."
		case ErrAuth:
			return "Please sign in again."
		case ErrValidation:
			return "Please correct the highlighted fields."
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// FieldSummary flattens validation field messages in a stable order.
func FieldSummary(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fields[k])
	}
	return strings.Join(parts, "; ")
}

// KindName is a short label for err's kind: "ok" for nil, "timeout" for a
// timed out request, "other" for errors outside the taxonomy.
func KindName(err error) string {
	if err == nil {
		return "ok"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Timeout {
		return "timeout"
	}
	switch {
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "other"
	}
}
