package posts

import (
	"context"
	"log/slog"

	"Folio/internal/core/pagination"
)

type postService struct {
	repo        Repository
	logger      *slog.Logger
	maxPageSize int
}

// NewPostService creates a new post service.
// maxPageSize bounds the size a listing may negotiate; 0 uses the default.
func NewPostService(repo Repository, maxPageSize int, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPageSize < 1 {
		maxPageSize = pagination.DefaultMaxPageSize
	}
	return &postService{
		repo:        repo,
		logger:      logger,
		maxPageSize: maxPageSize,
	}
}

func (s *postService) ListArchive(ctx context.Context, userID string, stream PageStream) error {
	return s.list(ctx, ScopeArchive, userID, stream)
}

func (s *postService) ListOwnPosts(ctx context.Context, userID string, stream PageStream) error {
	return s.list(ctx, ScopeOwnPosts, userID, stream)
}

func (s *postService) ListDrafts(ctx context.Context, userID string, stream PageStream) error {
	return s.list(ctx, ScopeDrafts, userID, stream)
}

func (s *postService) GetPublished(ctx context.Context, id string) (*Post, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetPublished(ctx, id)
}

func (s *postService) list(ctx context.Context, scope Scope, userID string, stream PageStream) error {
	source := pagination.SourceFunc[*Post](func(ctx context.Context, q pagination.Query) ([]*Post, error) {
		return s.repo.List(ctx, scope, userID, q)
	})

	paginator := pagination.New[*Post](source, scope.Adapter(), s.maxPageSize)

	views := pagination.Map[pagination.PageRequest](stream, func(page *pagination.Page[*Post]) *pagination.Page[*PostView] {
		return pagination.MapPage(page, func(post *Post) *PostView {
			return NewPostView(post, userID, true)
		})
	})

	s.logger.Debug("post listing opened", "scope", scope.String(), "user", userID)
	return paginator.Serve(ctx, views)
}
