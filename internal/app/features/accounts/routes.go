// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// MountRoutes registers the account provisioning endpoints with
// permissive CORS: the caller is a browser-hosted admin page on another
// origin, so preflight must succeed.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/accounts", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}))
		r.Post("/batch-create", h.ServeBatchCreate)
		r.Post("/delete", h.ServeDeleteByEmail)
	})
}
