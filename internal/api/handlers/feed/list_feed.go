package feed

import (
	"context"
	"log/slog"
	"net/http"

	"Folio/internal/api/handlers"
	"Folio/internal/api/middleware"
	"Folio/internal/api/stream"
	"Folio/internal/core/feed"
)

// ListFeedHandler serves the vote-driven feed
type ListFeedHandler struct {
	service feed.Service
	logger  *slog.Logger
}

// NewListFeedHandler creates a new feed handler
func NewListFeedHandler(service feed.Service, logger *slog.Logger) *ListFeedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListFeedHandler{service: service, logger: logger}
}

// HandleListFeed handles GET /stream/folio.post.listFeed
// Inbound frames are votes; outbound frames are single posts.
func (h *ListFeedHandler) HandleListFeed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteUnauthenticated(w)
		return
	}

	stream.Serve(w, r, h.logger, "folio.post.listFeed", func(ctx context.Context, s feed.VoteStream) error {
		return h.service.ListFeed(ctx, userID, s)
	})
}
