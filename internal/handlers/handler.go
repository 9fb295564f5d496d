package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/petermazzocco/picture-picker/internal/auth"
	"github.com/petermazzocco/picture-picker/internal/imagemeta"
	"github.com/petermazzocco/picture-picker/internal/live"
	"github.com/petermazzocco/picture-picker/internal/objectstore"
	"github.com/petermazzocco/picture-picker/internal/ranking"
	"github.com/petermazzocco/picture-picker/internal/store"
)

// Handler serves the HTTP API.
type Handler struct {
	store     *store.Store
	engine    *ranking.Engine
	objects   objectstore.Store
	extractor imagemeta.Extractor
	hub       *live.Hub
	sessions  sessions.Store
	logger    *slog.Logger
}

func New(s *store.Store, objects objectstore.Store, extractor imagemeta.Extractor, hub *live.Hub, sessionStore sessions.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:     s,
		engine:    ranking.NewEngine(s),
		objects:   objects,
		extractor: extractor,
		hub:       hub,
		sessions:  sessionStore,
		logger:    logger,
	}
}

// userID returns the authenticated user, writing a 401 when there is none.
func userID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "not authorized")
	}
	return id, ok
}

// idParam parses a numeric URL parameter, writing a 400 when it is invalid.
func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		errorResponse(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
