package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/petermazzocco/picture-picker/internal/auth"
	"github.com/petermazzocco/picture-picker/internal/config"
)

// Routes builds the chi router for the whole API.
func (h *Handler) Routes(limit config.RateLimitConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// User auth
	r.Post("/auth/{provider}", h.BeginAuth)
	r.Get("/auth/{provider}/callback", h.AuthCallback)
	r.Post("/logout/{provider}", h.Logout)

	// Available API routes for authenticated users
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(h.sessions))
		r.Use(httprate.Limit(
			limit.Requests,
			limit.Window,
			httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
		))

		r.Get("/user", h.GetUser)

		r.Get("/albums", h.ListAlbums)
		r.Post("/albums", h.CreateAlbum)
		r.Get("/albums/{id}", h.GetAlbum)
		r.Post("/albums/{id}/share", h.ShareAlbum)
		r.Post("/albums/{id}/photos", h.UploadPhotos)
		r.Get("/albums/{id}/live", h.Live)

		r.Post("/photos/{id}/vote", h.Vote)
	})

	return r
}
