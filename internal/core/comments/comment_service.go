package comments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"Folio/internal/core/pagination"
)

type commentService struct {
	repo        Repository
	posts       PostLookup
	logger      *slog.Logger
	maxPageSize int
}

// NewCommentService creates a new comment service
func NewCommentService(repo Repository, posts PostLookup, maxPageSize int, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPageSize < 1 {
		maxPageSize = pagination.DefaultMaxPageSize
	}
	return &commentService{
		repo:        repo,
		posts:       posts,
		logger:      logger,
		maxPageSize: maxPageSize,
	}
}

func (s *commentService) List(ctx context.Context, userID string, stream PageStream) error {
	views := pagination.Map[pagination.PageRequest](stream, func(page *pagination.Page[*Comment]) *pagination.Page[*CommentView] {
		return pagination.MapPage(page, NewCommentView)
	})

	first, err := views.Recv()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}

	postID := strings.TrimSpace(first.ContextID)
	if postID == "" {
		return pagination.NewInvalidArgument(pagination.ReasonMissingLocation)
	}

	post, err := s.posts.GetPublished(ctx, postID)
	if err != nil {
		return err
	}

	source := pagination.SourceFunc[*Comment](func(ctx context.Context, q pagination.Query) ([]*Comment, error) {
		return s.repo.List(ctx, post.ID, q)
	})

	paginator := pagination.New[*Comment](source, Adapter, s.maxPageSize).
		WithOnItems(func(ctx context.Context, items []*Comment) error {
			latest := newest(items)
			if err := s.repo.MarkSeen(ctx, userID, post.ID, latest.ID); err != nil {
				return fmt.Errorf("mark comments seen: %w", err)
			}
			return nil
		})

	s.logger.Debug("comment listing opened", "post", post.ID, "user", userID)
	return paginator.Serve(ctx, pagination.Replay(first, views))
}
