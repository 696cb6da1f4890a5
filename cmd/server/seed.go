package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var seedHandles = []string{
	"sarah_jenkins", "michael_chen", "jessica_rodriguez", "david_nguyen",
	"emily_williams", "james_patel", "ashley_garcia", "robert_kim",
}

var seedTitles = []string{
	"Notes on keyset pagination",
	"Why the feed never repeats itself",
	"A week without notifications",
	"Drafting in public",
	"Reading list for the long weekend",
	"What the scoreboard does not show",
}

var seedComments = []string{
	"Couldn't have said it better myself!",
	"This changed how I think about it.",
	"Any sources for the second point?",
	"Bookmarking this for later.",
	"Strongly disagree, but great write-up.",
}

type seedOptions struct {
	users    int
	posts    int
	drafts   int
	comments int
	seed     uint64
}

func newSeedCmd() *cobra.Command {
	opts := seedOptions{}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a development database with users, posts and comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openDB(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return seed(cmd.Context(), db, logger, opts)
		},
	}

	seedCmd.Flags().IntVar(&opts.users, "users", len(seedHandles), "number of users to create")
	seedCmd.Flags().IntVar(&opts.posts, "posts", 30, "published posts per run")
	seedCmd.Flags().IntVar(&opts.drafts, "drafts", 5, "drafts per user")
	seedCmd.Flags().IntVar(&opts.comments, "comments", 12, "comments per published post")
	seedCmd.Flags().Uint64Var(&opts.seed, "seed", 1, "random seed")
	return seedCmd
}

func seed(ctx context.Context, db *sql.DB, logger *slog.Logger, opts seedOptions) error {
	if opts.users < 1 {
		return errors.New("seed needs at least one user")
	}
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x5eed))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	users := make([]string, 0, opts.users)
	for i := 0; i < opts.users; i++ {
		handle := fmt.Sprintf("%s%d", seedHandles[i%len(seedHandles)], i)
		id := "user-" + handle
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, handle) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			id, handle); err != nil {
			return fmt.Errorf("failed to create user %s: %w", handle, err)
		}
		users = append(users, id)
	}

	baseTime := time.Now().UTC().Add(-48 * time.Hour)

	published := make([]string, 0, opts.posts)
	for i := 0; i < opts.posts; i++ {
		id := uuid.NewString()
		author := users[rng.IntN(len(users))]
		createdAt := baseTime.Add(time.Duration(i*40+rng.IntN(20)) * time.Minute)
		publishedAt := createdAt.Add(time.Duration(5+rng.IntN(30)) * time.Minute)

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO posts (id, author_id, title, preview, is_anonymous, score, created_at, published_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, author,
			seedTitles[i%len(seedTitles)],
			fmt.Sprintf("Preview of post %d", i),
			rng.IntN(4) == 0,
			rng.IntN(50),
			createdAt, publishedAt,
		); err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		published = append(published, id)
	}

	draftCount := 0
	for _, author := range users {
		for j := 0; j < opts.drafts; j++ {
			createdAt := baseTime.Add(time.Duration(rng.IntN(48*60)) * time.Minute)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO posts (id, author_id, title, created_at)
				VALUES ($1, $2, $3, $4)`,
				uuid.NewString(), author, fmt.Sprintf("Draft %d", j), createdAt,
			); err != nil {
				return fmt.Errorf("failed to create draft: %w", err)
			}
			draftCount++
		}
	}

	commentCount := 0
	for _, postID := range published {
		for j := 0; j < opts.comments; j++ {
			author := users[rng.IntN(len(users))]
			createdAt := baseTime.Add(48*time.Hour - time.Duration(rng.IntN(24*60))*time.Minute)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO comments (id, post_id, author_id, text, created_at)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.NewString(), postID, author,
				seedComments[rng.IntN(len(seedComments))], createdAt,
			); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			commentCount++
		}

		// Half the users follow each post so archives are not empty
		for _, userID := range users {
			if rng.IntN(2) == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO post_subscriptions (user_id, post_id) VALUES ($1, $2)
				ON CONFLICT (user_id, post_id) DO NOTHING`,
				userID, postID,
			); err != nil {
				return fmt.Errorf("failed to subscribe %s: %w", userID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}

	logger.Info("seeded database",
		"users", len(users),
		"posts", len(published),
		"drafts", draftCount,
		"comments", commentCount)
	return nil
}
