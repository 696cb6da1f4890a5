package comments

import (
	"context"
	"log/slog"
	"net/http"

	"Folio/internal/api/handlers"
	"Folio/internal/api/middleware"
	"Folio/internal/api/stream"
	"Folio/internal/core/comments"
)

// ListHandler serves the comment listing of a post
type ListHandler struct {
	service comments.Service
	logger  *slog.Logger
}

// NewListHandler creates a new comment listing handler
func NewListHandler(service comments.Service, logger *slog.Logger) *ListHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListHandler{service: service, logger: logger}
}

// HandleList handles GET /stream/folio.comment.list
// The first page request must carry the post id as context_id.
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteUnauthenticated(w)
		return
	}

	stream.Serve(w, r, h.logger, "folio.comment.list", func(ctx context.Context, s comments.PageStream) error {
		return h.service.List(ctx, userID, s)
	})
}
