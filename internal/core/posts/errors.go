package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post does not exist, is deleted, or is
	// not visible to the caller
	ErrNotFound = errors.New("post not found")

	// ErrUnknownScope is returned when a listing scope has no query
	ErrUnknownScope = errors.New("unknown post scope")
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string // e.g., "post"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Unwrap lets errors.Is match ErrNotFound
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
