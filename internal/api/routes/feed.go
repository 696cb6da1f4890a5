package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	feedHandler "Folio/internal/api/handlers/feed"
	"Folio/internal/api/middleware"
	"Folio/internal/core/feed"
)

// RegisterFeedRoutes registers the vote-driven feed on the router
func RegisterFeedRoutes(r chi.Router, service feed.Service, authMiddleware *middleware.JWTAuthMiddleware, limiter *middleware.RateLimiter, logger *slog.Logger) {
	listFeedHandler := feedHandler.NewListFeedHandler(service, logger)

	r.With(streamGuard(authMiddleware, limiter)...).Get("/stream/folio.post.listFeed", listFeedHandler.HandleListFeed)
}
