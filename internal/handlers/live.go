package handlers

import "net/http"

// Live handles GET /api/albums/{id}/live
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	albumID, ok := idParam(w, r, "id")
	if !ok {
		return
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

	// Serve writes its own error response when the upgrade fails.
	if err := h.hub.Serve(w, r, album.ID); err != nil {
		h.logger.Warn("live upgrade failed", "error", err, "album_id", album.ID)
	}
}
