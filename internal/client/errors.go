package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response of the catalog API.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Attempt    int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d on attempt %d: %s",
		e.Method, e.Endpoint, e.StatusCode, e.Attempt, truncate(e.Body, 200))
}

// Retryable reports whether the status signals a transient condition.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == http.StatusTooManyRequests
}

// RetryExhaustedError is returned after the last attempt of a retried call failed.
type RetryExhaustedError struct {
	Endpoint string
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s: giving up after %d attempts: %v", e.Endpoint, e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Last
}

// IsRetryable reports whether err wraps a transient API error.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// IsNotFound reports whether err wraps a 404 response.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
