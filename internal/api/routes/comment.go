package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	commentsHandler "Folio/internal/api/handlers/comments"
	"Folio/internal/api/middleware"
	"Folio/internal/core/comments"
)

// RegisterCommentRoutes registers the streaming comment listing on the router
func RegisterCommentRoutes(r chi.Router, service comments.Service, authMiddleware *middleware.JWTAuthMiddleware, limiter *middleware.RateLimiter, logger *slog.Logger) {
	listHandler := commentsHandler.NewListHandler(service, logger)

	r.With(streamGuard(authMiddleware, limiter)...).Get("/stream/folio.comment.list", listHandler.HandleList)
}
