package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Folio/internal/core/votes"
)

type postgresVoteRepo struct {
	db *sql.DB
}

// NewVoteRepository creates a new PostgreSQL vote repository
func NewVoteRepository(db *sql.DB) votes.Repository {
	return &postgresVoteRepo{db: db}
}

// Create inserts a vote and applies its spread to the post score in one statement.
// Votes on unknown posts and repeated votes insert nothing and are not errors.
func (r *postgresVoteRepo) Create(ctx context.Context, vote *votes.Vote) error {
	query := `
		WITH inserted AS (
			INSERT INTO votes (id, user_id, post_id, spread, created_at)
			SELECT $1::uuid, $2, p.id, $4::integer, $5::timestamptz
			FROM posts p
			WHERE p.id::text = $3
			ON CONFLICT (user_id, post_id) DO NOTHING
			RETURNING post_id, spread
		)
		UPDATE posts
		SET score = posts.score + inserted.spread
		FROM inserted
		WHERE posts.id = inserted.post_id
	`

	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.UserID, vote.PostID, vote.Spread, vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}
