package budget

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for budgeting API operations.
var (
	ErrMissingToken   = errors.New("budget: API token is required")
	ErrUnauthorized   = errors.New("budget: API token rejected")
	ErrNotFound       = errors.New("budget: resource not found")
	ErrRateLimited    = errors.New("budget: rate limit exceeded")
	ErrInvalidPayload = errors.New("budget: invalid request payload")
)

// APIError is a non-2xx response from the budgeting API.
type APIError struct {
	StatusCode int
	Name       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("budget: API error %d (%s): %s", e.StatusCode, e.Name, e.Detail)
	}
	return fmt.Sprintf("budget: API error %d", e.StatusCode)
}

// Unwrap maps well-known status codes onto sentinel errors so callers can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	case 400, 422:
		return ErrInvalidPayload
	default:
		return nil
	}
}

// Retryable reports whether the error is worth retrying: rate limits,
// server-side failures, and transport errors. Client errors are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	// Transport-level failures (timeouts, resets) are retryable.
	return true
}
