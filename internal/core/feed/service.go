package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"Folio/internal/core/posts"
	"Folio/internal/core/votes"
)

type feedService struct {
	pool     Pool
	votes    votes.Service
	logger   *slog.Logger
	capacity int
}

// NewFeedService creates a feed service. A capacity of 0 uses DefaultMaxStackSize.
func NewFeedService(pool Pool, voteService votes.Service, capacity int, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity == 0 {
		capacity = DefaultMaxStackSize
	}
	return &feedService{
		pool:     pool,
		votes:    voteService,
		logger:   logger,
		capacity: capacity,
	}
}

func (s *feedService) ListFeed(ctx context.Context, userID string, stream VoteStream) error {
	session := NewSession(userID, s.pool, s.votes, s.capacity)

	batch, err := session.Open(ctx)
	if err != nil {
		return err
	}
	for _, p := range batch {
		if err := s.send(ctx, stream, userID, p); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			s.logger.Debug("feed stream ended",
				"user", userID,
				"state", session.State().String(),
				"held", session.Stack().Len())
			return nil
		}
		if err != nil {
			return err
		}

		revealed, err := session.Vote(ctx, req)
		if err != nil {
			return err
		}
		if revealed == nil {
			continue
		}
		if err := s.send(ctx, stream, userID, revealed); err != nil {
			return err
		}
	}
}

func (s *feedService) send(ctx context.Context, stream VoteStream, userID string, p *posts.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return stream.Send(posts.NewPostView(p, userID, false))
}
