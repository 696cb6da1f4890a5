package votes

import "context"

// Service records votes on behalf of the feed
type Service interface {
	// CastVote records the caller's vote on a post.
	// Votes on posts that do not exist, or that the user already voted on,
	// are accepted and leave no record.
	CastVote(ctx context.Context, userID string, req CastVoteRequest) (*Vote, error)
}

// Repository defines the data access interface for votes
type Repository interface {
	// Create inserts a vote and adds its spread to the post score.
	// Idempotent: ON CONFLICT (user_id, post_id) DO NOTHING.
	// A vote whose post does not exist is silently dropped.
	Create(ctx context.Context, vote *Vote) error
}
