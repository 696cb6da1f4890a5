package routes

import (
	"net/http"

	"Folio/internal/api/middleware"
)

// streamGuard authenticates a stream call, then rate limits it per caller.
// A nil limiter leaves calls unlimited.
func streamGuard(authMiddleware *middleware.JWTAuthMiddleware, limiter *middleware.RateLimiter) []func(http.Handler) http.Handler {
	guards := []func(http.Handler) http.Handler{authMiddleware.RequireAuth}
	if limiter != nil {
		guards = append(guards, limiter.Middleware)
	}
	return guards
}
