// internal/app/features/contact/routes.go
package contact

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// MountRoutes registers POST /contact with permissive CORS for the
// public registration site.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/contact", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))
		r.Post("/", h.ServeContact)
	})
}
