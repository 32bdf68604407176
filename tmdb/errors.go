package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
	// ErrEmptyQuery indicates a search was requested without a query
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrDecode indicates the API returned a body that could not be decoded
	ErrDecode = errors.New("failed to decode tmdb response")
)

// APIError represents a non-2xx response from TMDB
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// retryable reports whether the request is worth repeating
func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// FetchError is the single error surfaced by every catalog call. Op is the
// human readable operation ("popular movies", "movie details", ...).
type FetchError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Err == nil {
		return "failed to fetch " + e.Op
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is, or wraps, a TMDB 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

func fetchError(op string, err error) error {
	return &FetchError{Op: op, Err: err}
}
