// Package httpapi exposes the server's REST surface: the auth endpoints the
// session provider talks to and the profile endpoints the sync store talks
// to. Every route except the health probe requires the project API key;
// profile routes additionally require a Bearer access token.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/youverse/dupliverse/internal/logging"
	"github.com/youverse/dupliverse/internal/server/services"
)

// Handlers bundles the services the HTTP layer dispatches into.
type Handlers struct {
	users    *services.UserService
	profiles *services.ProfileService
}

func NewHandlers(users *services.UserService, profiles *services.ProfileService) *Handlers {
	return &Handlers{users: users, profiles: profiles}
}

// NewRouter assembles the chi router with the standard middleware chain.
func NewRouter(h *Handlers, apiKey string, secretKey []byte, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(requireAPIKey(apiKey))

		r.Route("/auth/v1", func(r chi.Router) {
			r.Post("/signup", h.handleSignUp)
			r.Post("/token", h.handleToken)
			r.Post("/logout", h.handleLogout)
		})

		r.Route("/rest/v1/profiles", func(r chi.Router) {
			r.Use(requireAuth(secretKey))
			r.Post("/", h.handleCreateProfile)
			r.Get("/{id}", h.handleGetProfile)
			r.Patch("/{id}", h.handlePatchProfile)
		})
	})

	return r
}
