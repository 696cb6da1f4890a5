package stream

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/gorilla/websocket"

	"Folio/internal/core/comments"
	"Folio/internal/core/pagination"
	"Folio/internal/core/posts"
	"Folio/internal/core/votes"
)

// Status names reported in error frames
const (
	StatusInvalidArgument = "InvalidArgument"
	StatusNotFound        = "NotFound"
	StatusInternal        = "Internal"
)

// ReasonMissingTarget is reported for a vote that names no post
const ReasonMissingTarget = "missing_target"

// ErrorFrame is the last message of a failed call
type ErrorFrame struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Status is the client-facing form of an error that ended a call
type Status struct {
	Name      string
	Reason    string
	CloseCode int
	// Silent errors end the call without an error frame
	Silent bool
}

// Classify maps an error returned by a core service to its client-facing status
func Classify(err error) Status {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return Status{Silent: true, CloseCode: websocket.CloseGoingAway}

	case pagination.IsInvalidArgument(err):
		return Status{Name: StatusInvalidArgument, Reason: pagination.ReasonOf(err), CloseCode: websocket.ClosePolicyViolation}

	case errors.Is(err, votes.ErrMissingPost):
		return Status{Name: StatusInvalidArgument, Reason: ReasonMissingTarget, CloseCode: websocket.ClosePolicyViolation}

	case posts.IsNotFound(err):
		return Status{Name: StatusNotFound, Reason: "post_not_found", CloseCode: websocket.ClosePolicyViolation}

	case comments.IsNotFound(err):
		return Status{Name: StatusNotFound, Reason: "comment_not_found", CloseCode: websocket.ClosePolicyViolation}

	default:
		return Status{Name: StatusInternal, Reason: "internal_error", CloseCode: websocket.CloseInternalServerErr}
	}
}

// isDisconnect reports errors caused by the client going away mid-call
func isDisconnect(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, websocket.ErrCloseSent) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
