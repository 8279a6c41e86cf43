package vectorindex

import (
	"errors"
	"fmt"
)

// Common errors returned by the vector index client.
var (
	// ErrNotFound indicates the vector id is not in the index.
	ErrNotFound = errors.New("vector not found in index")

	// ErrAuthError indicates an authentication error (missing/invalid API token).
	ErrAuthError = errors.New("vector index authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("vector index rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with vector index")

	// ErrInvalidResponse indicates an unexpected index response.
	ErrInvalidResponse = errors.New("invalid response from vector index")
)

// APIError represents an error response from the vector index.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vector index error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates a missing vector.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
