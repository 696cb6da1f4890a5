package post

import (
	"context"
	"log/slog"
	"net/http"

	"Folio/internal/api/handlers"
	"Folio/internal/api/middleware"
	"Folio/internal/api/stream"
	"Folio/internal/core/pagination"
	"Folio/internal/core/posts"
)

// ListHandler serves the paginated post listings
type ListHandler struct {
	service posts.Service
	logger  *slog.Logger
}

// NewListHandler creates a new post listing handler
func NewListHandler(service posts.Service, logger *slog.Logger) *ListHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListHandler{service: service, logger: logger}
}

type listFunc func(ctx context.Context, userID string, s posts.PageStream) error

// HandleListArchive handles GET /stream/folio.post.listArchive
func (h *ListHandler) HandleListArchive(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "folio.post.listArchive", h.service.ListArchive)
}

// HandleListOwnPosts handles GET /stream/folio.post.listOwnPosts
func (h *ListHandler) HandleListOwnPosts(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "folio.post.listOwnPosts", h.service.ListOwnPosts)
}

// HandleListDrafts handles GET /stream/folio.post.listDrafts
func (h *ListHandler) HandleListDrafts(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "folio.post.listDrafts", h.service.ListDrafts)
}

func (h *ListHandler) serve(w http.ResponseWriter, r *http.Request, method string, list listFunc) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteUnauthenticated(w)
		return
	}

	stream.Serve(w, r, h.logger, method,
		func(ctx context.Context, s pagination.Stream[pagination.PageRequest, *pagination.Page[*posts.PostView]]) error {
			return list(ctx, userID, s)
		})
}
