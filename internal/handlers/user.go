package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth/gothic"
	"github.com/petermazzocco/picture-picker/internal/auth"
)

// withProvider exposes the {provider} route parameter where gothic looks for it.
func withProvider(r *http.Request) *http.Request {
	q := r.URL.Query()
	q.Set("provider", chi.URLParam(r, "provider"))
	r.URL.RawQuery = q.Encode()
	return r
}

// BeginAuth handles POST /auth/{provider}
func (h *Handler) BeginAuth(w http.ResponseWriter, r *http.Request) {
	r = withProvider(r)
	if gothUser, err := gothic.CompleteUserAuth(w, r); err == nil {
		fmt.Fprintf(w, "User already authenticated: %s\n", gothUser.Name)
		return
	}
	gothic.BeginAuthHandler(w, r)
}

// AuthCallback handles GET /auth/{provider}/callback
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	gothUser, err := gothic.CompleteUserAuth(w, withProvider(r))
	if err != nil {
		h.logger.Warn("failed to complete user auth", "error", err)
		errorResponse(w, http.StatusUnauthorized, "authentication failed")
		return
	}
	if gothUser.Email == "" {
		errorResponse(w, http.StatusBadRequest, "provider returned no email")
		return
	}

	user, err := h.store.UpsertUserByEmail(r.Context(), gothUser.Name, gothUser.Email)
	if err != nil {
		h.fail(w, r, err, "failed to create user")
		return
	}

	if err := auth.Login(w, r, h.sessions, user.ID); err != nil {
		h.logger.Error("failed to save session", "error", err, "user_id", user.ID)
		errorResponse(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// Logout handles POST /logout/{provider}
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	gothic.Logout(w, withProvider(r))
	if err := auth.Logout(w, r, h.sessions); err != nil {
		h.logger.Error("failed to clear session", "error", err)
		errorResponse(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetUser handles GET /api/user
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := h.store.FindUser(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed to load user")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}
