package feed

import (
	"context"

	"Folio/internal/core/pagination"
	"Folio/internal/core/posts"
	"Folio/internal/core/votes"
)

// VoteStream is the server side of a feed call
type VoteStream = pagination.Stream[votes.CastVoteRequest, *posts.PostView]

// Pool ranks feed candidates
type Pool interface {
	// Rank returns up to limit published candidates for userID, best first.
	// Posts the user already voted on and ids in exclude never appear.
	Rank(ctx context.Context, userID string, exclude []string, limit int) ([]*posts.Post, error)
}

// Service serves feed streams
type Service interface {
	// ListFeed sends the initial batch, then answers every inbound vote with
	// at most one new candidate until the client stops sending
	ListFeed(ctx context.Context, userID string, stream VoteStream) error
}
