package pagination

import (
	"errors"
	"fmt"
)

// Reasons carried by InvalidArgumentError
const (
	ReasonMissingInitialSize = "missing_initial_size"
	ReasonInvalidSize        = "invalid_size"
	ReasonMissingLocation    = "missing_location"
	ReasonInvalidCursor      = "invalid_cursor"
)

// ErrClosed is returned when a closed paginator is stepped again
var ErrClosed = errors.New("paginator closed")

// InvalidArgumentError reports a request that breaks the stream contract.
// The call boundary aborts the stream with Reason; it is never retried.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// NewInvalidArgument creates an InvalidArgumentError with the given reason
func NewInvalidArgument(reason string) error {
	return &InvalidArgumentError{Reason: reason}
}

// IsInvalidArgument checks if err is (or wraps) an InvalidArgumentError
func IsInvalidArgument(err error) bool {
	var invalid *InvalidArgumentError
	return errors.As(err, &invalid)
}

// ReasonOf returns the reason of a wrapped InvalidArgumentError, or "".
func ReasonOf(err error) string {
	var invalid *InvalidArgumentError
	if errors.As(err, &invalid) {
		return invalid.Reason
	}
	return ""
}
