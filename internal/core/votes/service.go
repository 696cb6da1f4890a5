package votes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type voteService struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new vote service instance
func NewService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &voteService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *voteService) CastVote(ctx context.Context, userID string, req CastVoteRequest) (*Vote, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	postID := strings.TrimSpace(req.PostID)
	if postID == "" {
		return nil, ErrMissingPost
	}

	vote := &Vote{
		ID:        uuid.NewString(),
		UserID:    userID,
		PostID:    postID,
		Spread:    req.Spread,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, vote); err != nil {
		s.logger.Error("failed to record vote",
			"error", err,
			"user", userID,
			"post", postID)
		return nil, fmt.Errorf("record vote: %w", err)
	}

	s.logger.Debug("vote recorded", "user", userID, "post", postID, "spread", req.Spread)
	return vote, nil
}
