package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"Folio/internal/api/handlers/post"
	"Folio/internal/api/middleware"
	"Folio/internal/core/posts"
)

// RegisterPostRoutes registers the streaming post listings on the router
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.JWTAuthMiddleware, limiter *middleware.RateLimiter, logger *slog.Logger) {
	listHandler := post.NewListHandler(service, logger)

	r.Group(func(r chi.Router) {
		r.Use(streamGuard(authMiddleware, limiter)...)

		// folio.post.listArchive - published posts the caller subscribed to
		r.Get("/stream/folio.post.listArchive", listHandler.HandleListArchive)

		// folio.post.listOwnPosts - the caller's published posts
		r.Get("/stream/folio.post.listOwnPosts", listHandler.HandleListOwnPosts)

		// folio.post.listDrafts - the caller's drafts
		r.Get("/stream/folio.post.listDrafts", listHandler.HandleListDrafts)
	})
}
