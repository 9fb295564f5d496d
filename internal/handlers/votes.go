package handlers

import (
	"net/http"

	"github.com/petermazzocco/picture-picker/internal/live"
	"github.com/petermazzocco/picture-picker/internal/ranking"
)

type voteRequest struct {
	Value  *int `json:"value"`
	Toggle bool `json:"toggle"`
}

// VoteEvent is the payload of a live vote.cast event.
type VoteEvent struct {
	ranking.Counts
	Score int `json:"score"`
}

// Vote handles POST /api/photos/{id}/vote
//
// value is the caller's new vote: 1, -1, or 0 to retract. With toggle set,
// resubmitting the vote already held retracts it instead.
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	photoID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req voteRequest
	if err := parseJSONBody(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Value == nil {
		errorResponse(w, http.StatusBadRequest, "value is required")
		return
	}
	if _, _, err := ranking.Transition(ranking.NoVote, *req.Value); err != nil {
		h.fail(w, r, err, "invalid vote")
		return
	}

	photo, err := h.store.FindPhoto(r.Context(), photoID)
	if err != nil {
		h.fail(w, r, err, "failed to load photo")
		return
	}
	if photo.Album == nil || !photo.Album.CanAccess(uid) {
		errorResponse(w, http.StatusForbidden, "you do not have access to this album")
		return
	}

	var res *ranking.Result
	if req.Toggle {
		res, err = h.engine.Toggle(r.Context(), photoID, uid, *req.Value)
	} else {
		res, err = h.engine.Cast(r.Context(), photoID, uid, *req.Value)
	}
	if err != nil {
		h.fail(w, r, err, "failed to record vote")
		return
	}

	h.logger.Debug("vote recorded",
		"photo_id", photoID,
		"user_id", uid,
		"state", res.State.String(),
		"effect", res.Effect.String(),
	)

	h.hub.Publish(&live.Event{
		Type:    live.EventVoteCast,
		AlbumID: res.Photo.AlbumID,
		PhotoID: res.Photo.ID,
		Data:    VoteEvent{Counts: res.Counts, Score: res.Counts.Score()},
	})

	jsonResponse(w, http.StatusOK, newPhotoView(res.Photo, uid))
}
