package votes

import "time"

// Vote is one user's reaction to a feed candidate.
// Votes are append-only; a user votes on a post at most once.
type Vote struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	PostID    string    `json:"postId" db:"post_id"`
	Spread    int       `json:"spread" db:"spread"`
}

// CastVoteRequest is the inbound vote message of the feed stream
type CastVoteRequest struct {
	PostID string `json:"post_id"`
	Spread int    `json:"spread"`
}
