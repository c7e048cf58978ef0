package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for profile operations.
var (
	// ErrProfileNotFound indicates no profile matches the requested id.
	// HTTP Status: 404 Not Found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidProfileID indicates the id path segment is not a positive integer.
	// HTTP Status: 400 Bad Request
	ErrInvalidProfileID = errors.New("invalid profile id")

	// ErrDatabaseUnavailable indicates there is no usable connection pool.
	// HTTP Status: 500 Internal Server Error
	ErrDatabaseUnavailable = errors.New("database connection not available")
)

// ValidationError carries every failed validation rule for a payload.
// HTTP Status: 400 Bad Request
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}
