package posts

import (
	"context"

	"Folio/internal/core/pagination"
)

// PageStream is the server side of a post listing call
type PageStream = pagination.Stream[pagination.PageRequest, *pagination.Page[*PostView]]

// Service defines the listing operations on posts
type Service interface {
	// ListArchive streams the published posts the caller subscribed to,
	// newest publication first
	ListArchive(ctx context.Context, userID string, stream PageStream) error

	// ListOwnPosts streams the caller's published posts
	ListOwnPosts(ctx context.Context, userID string, stream PageStream) error

	// ListDrafts streams the caller's drafts, newest creation first
	ListDrafts(ctx context.Context, userID string, stream PageStream) error

	// GetPublished returns a published, non-deleted post or ErrNotFound
	GetPublished(ctx context.Context, id string) (*Post, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	// GetPublished retrieves a published, non-deleted post by id
	GetPublished(ctx context.Context, id string) (*Post, error)

	// List returns one keyset window of the posts in scope for userID.
	// Deleted posts never appear.
	List(ctx context.Context, scope Scope, userID string, q pagination.Query) ([]*Post, error)
}
