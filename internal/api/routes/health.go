package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterHealthRoutes registers the unauthenticated health check
func RegisterHealthRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
