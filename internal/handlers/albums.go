package handlers

import (
	"net/http"
	"strings"

	"github.com/petermazzocco/picture-picker/internal/ranking"
	"github.com/petermazzocco/picture-picker/models"
)

type createAlbumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type shareAlbumRequest struct {
	Email string `json:"email"`
}

// ListAlbums handles GET /api/albums
func (h *Handler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	albums, err := h.store.ListAlbums(r.Context(), uid)
	if err != nil {
		h.fail(w, r, err, "failed to list albums")
		return
	}

	summaries := make([]AlbumSummary, 0, len(albums))
	for i := range albums {
		summaries = append(summaries, newAlbumSummary(&albums[i]))
	}
	jsonResponse(w, http.StatusOK, summaries)
}

// CreateAlbum handles POST /api/albums
func (h *Handler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req createAlbumRequest
	if err := parseJSONBody(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	album := &models.Album{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		CreatorID:   uid,
	}
	if err := h.store.CreateAlbum(r.Context(), album); err != nil {
		h.fail(w, r, err, "failed to create album")
		return
	}

	h.logger.Info("album created", "album_id", album.ID, "user_id", uid)
	jsonResponse(w, http.StatusCreated, newAlbumSummary(album))
}

// GetAlbum handles GET /api/albums/{id}?sort=<mode>
func (h *Handler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	albumID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	mode := ranking.DefaultSortMode
	if s := r.URL.Query().Get("sort"); s != "" {
		var err error
		if mode, err = ranking.ParseSortMode(s); err != nil {
			h.fail(w, r, err, "invalid sort")
			return
		}
	}

	album, err := h.store.FindAlbum(r.Context(), albumID)
	if err != nil {
		h.fail(w, r, err, "failed to load album")
		return
	}
	if !album.CanAccess(uid) {
		errorResponse(w, http.StatusForbidden, "you do not have access to this album")
		return
	}

	if err := ranking.Sort(album.Photos, mode); err != nil {
		h.fail(w, r, err, "failed to sort photos")
		return
	}
	jsonResponse(w, http.StatusOK, newAlbumView(album, mode, uid))
}

// ShareAlbum handles POST /api/albums/{id}/share
func (h *Handler) ShareAlbum(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	albumID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req shareAlbumRequest
	if err := parseJSONBody(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		errorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	album, err := h.store.FindAlbum(r.Context(), albumID)
	if err != nil {
		h.fail(w, r, err, "failed to load album")
		return
	}
	if album.CreatorID != uid {
		errorResponse(w, http.StatusForbidden, "only the album creator can share it")
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.fail(w, r, err, "failed to find user")
		return
	}
	if user.ID == uid {
		errorResponse(w, http.StatusBadRequest, "cannot share an album with yourself")
		return
	}

	if !album.CanAccess(user.ID) {
		if err := h.store.ShareAlbum(r.Context(), album, user); err != nil {
			h.fail(w, r, err, "failed to share album")
			return
		}
		h.logger.Info("album shared", "album_id", album.ID, "user_id", user.ID)
	}

	album, err = h.store.FindAlbum(r.Context(), albumID)
	if err != nil {
		h.fail(w, r, err, "failed to load album")
		return
	}
	if err := ranking.Sort(album.Photos, ranking.DefaultSortMode); err != nil {
		h.fail(w, r, err, "failed to sort photos")
		return
	}
	jsonResponse(w, http.StatusOK, newAlbumView(album, ranking.DefaultSortMode, uid))
}
