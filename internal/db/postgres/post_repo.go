package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"Folio/internal/core/pagination"
	"Folio/internal/core/posts"
)

const postColumns = `
	p.id, p.author_id, p.title, p.preview, p.is_anonymous, p.score,
	p.created_at, p.published_at, p.deleted_at`

// scopeQueries maps listing scopes to their FROM/WHERE clause.
// $1 is always the caller's user id.
var scopeQueries = map[posts.Scope]string{
	posts.ScopeArchive: `
		FROM posts p
		JOIN post_subscriptions s ON s.post_id = p.id AND s.user_id = $1
		WHERE p.deleted_at IS NULL AND p.published_at IS NOT NULL`,
	posts.ScopeOwnPosts: `
		FROM posts p
		WHERE p.author_id = $1 AND p.deleted_at IS NULL`,
	posts.ScopeDrafts: `
		FROM posts p
		WHERE p.author_id = $1 AND p.deleted_at IS NULL AND p.published_at IS NULL`,
}

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// GetPublished retrieves a published, non-deleted post by id
func (r *postgresPostRepo) GetPublished(ctx context.Context, id string) (*posts.Post, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, posts.NewNotFoundError("post", id)
	}

	query := `SELECT` + postColumns + `
		FROM posts p
		WHERE p.id = $1 AND p.published_at IS NOT NULL AND p.deleted_at IS NULL`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, postID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.NewNotFoundError("post", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// List returns one keyset window of the posts in scope for userID
func (r *postgresPostRepo) List(ctx context.Context, scope posts.Scope, userID string, q pagination.Query) ([]*posts.Post, error) {
	from, ok := scopeQueries[scope]
	if !ok {
		return nil, posts.ErrUnknownScope
	}

	ks, err := buildKeyset("p", q, 2)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY %s %s`, postColumns, from, ks.filter, ks.orderBy, ks.limit)
	args := append([]interface{}{userID}, ks.args...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s posts: %w", scope, err)
	}
	defer func() { _ = rows.Close() }()

	return scanPosts(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var (
		post        posts.Post
		publishedAt sql.NullTime
		deletedAt   sql.NullTime
	)

	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Preview, &post.IsAnonymous, &post.Score,
		&post.CreatedAt, &publishedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		post.PublishedAt = &publishedAt.Time
	}
	if deletedAt.Valid {
		post.DeletedAt = &deletedAt.Time
	}
	return &post, nil
}

func scanPosts(rows *sql.Rows) ([]*posts.Post, error) {
	result := []*posts.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}
