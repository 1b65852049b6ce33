package goodreads

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidCredentials indicates incomplete OAuth credentials
	ErrInvalidCredentials = errors.New("invalid goodreads credentials")
)

// APIError represents a non-200 response from the Goodreads API
type APIError struct {
	StatusCode int
	URL        string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("goodreads API error: status %d: %s", e.StatusCode, e.URL)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
