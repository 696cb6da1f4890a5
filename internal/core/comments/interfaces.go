package comments

import (
	"context"

	"Folio/internal/core/pagination"
	"Folio/internal/core/posts"
)

// PageStream is the server side of a comment listing call
type PageStream = pagination.Stream[pagination.PageRequest, *pagination.Page[*CommentView]]

// Service defines the listing operation on comments
type Service interface {
	// List streams the comments of the published post named by the first
	// request's context_id, oldest or newest first as each request asks.
	// Every non-empty page moves the caller's last-seen comment forward.
	List(ctx context.Context, userID string, stream PageStream) error
}

// Repository defines the data access interface for comments
type Repository interface {
	// List returns one keyset window of the non-deleted comments of a post
	List(ctx context.Context, postID string, q pagination.Query) ([]*Comment, error)

	// MarkSeen records commentID as the newest comment userID has seen on
	// postID. Only the caller's existing subscription is touched, and the
	// marker never moves backwards.
	MarkSeen(ctx context.Context, userID, postID, commentID string) error
}

// PostLookup resolves the post a listing belongs to
type PostLookup interface {
	GetPublished(ctx context.Context, id string) (*posts.Post, error)
}
