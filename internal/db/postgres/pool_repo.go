package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"Folio/internal/core/feed"
	"Folio/internal/core/posts"
)

// rankExpression weights a post's hot rank by a random factor so every
// refill draws a different mix. Hot rank decays with age like
// (score + 1) / (age_hours + 2)^1.5, floored so new posts still surface.
const rankExpression = `
	(GREATEST(p.score + 1, 1) / POWER(EXTRACT(EPOCH FROM (NOW() - p.published_at)) / 3600 + 2, 1.5)) * random()`

type postgresPoolRepo struct {
	db *sql.DB
}

// NewPoolRepository creates the PostgreSQL ranking pool for feed sessions
func NewPoolRepository(db *sql.DB) feed.Pool {
	return &postgresPoolRepo{db: db}
}

// Rank returns up to limit published posts the user has not voted on,
// skipping exclude
func (r *postgresPoolRepo) Rank(ctx context.Context, userID string, exclude []string, limit int) ([]*posts.Post, error) {
	if limit <= 0 {
		return []*posts.Post{}, nil
	}
	if exclude == nil {
		exclude = []string{}
	}

	query := `SELECT` + postColumns + `
		FROM posts p
		WHERE p.published_at IS NOT NULL
		  AND p.deleted_at IS NULL
		  AND NOT (p.id::text = ANY($2::text[]))
		  AND NOT EXISTS (
			SELECT 1 FROM votes v WHERE v.post_id = p.id AND v.user_id = $1
		  )
		ORDER BY ` + rankExpression + ` DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(exclude), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank feed candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanPosts(rows)
}
