package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Folio/internal/core/comments"
	"Folio/internal/core/pagination"
	"Folio/internal/core/posts"
)

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

// List returns one keyset window of a post's comments
func (r *postgresCommentRepo) List(ctx context.Context, postID string, q pagination.Query) ([]*comments.Comment, error) {
	ks, err := buildKeyset("c", q, 2)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, c.deleted_at
		FROM comments c
		WHERE c.post_id = $1::uuid AND c.deleted_at IS NULL %s
		ORDER BY %s
		%s`, ks.filter, ks.orderBy, ks.limit)

	args := append([]interface{}{postID}, ks.args...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(fmt.Errorf("failed to list comments: %w", err), posts.ErrNotFound)
	}
	defer func() { _ = rows.Close() }()

	result := []*comments.Comment{}
	for rows.Next() {
		var (
			comment   comments.Comment
			deletedAt sql.NullTime
		)
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text, &comment.CreatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if deletedAt.Valid {
			comment.DeletedAt = &deletedAt.Time
		}
		result = append(result, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}

// MarkSeen moves the subscription's last seen comment forward to commentID.
// Users without a subscription to the post are left alone.
func (r *postgresCommentRepo) MarkSeen(ctx context.Context, userID, postID, commentID string) error {
	query := `
		UPDATE post_subscriptions s
		SET last_comment_seen_id = n.id
		FROM comments n
		WHERE s.user_id = $1
		  AND s.post_id = $2::uuid
		  AND n.id = $3::uuid
		  AND n.post_id = s.post_id
		  AND (
			s.last_comment_seen_id IS NULL
			OR (n.created_at, n.id) > (
				SELECT o.created_at, o.id FROM comments o WHERE o.id = s.last_comment_seen_id
			)
		  )`

	if _, err := r.db.ExecContext(ctx, query, userID, postID, commentID); err != nil {
		return translateError(fmt.Errorf("failed to mark comment seen: %w", err), comments.ErrCommentNotFound)
	}
	return nil
}
