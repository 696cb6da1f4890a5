package votes

import "errors"

var (
	// ErrMissingUser indicates a vote was cast without a caller
	ErrMissingUser = errors.New("vote requires a user")

	// ErrMissingPost indicates a vote message did not name its target
	ErrMissingPost = errors.New("vote requires a post id")
)
