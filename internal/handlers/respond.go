package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/petermazzocco/picture-picker/internal/imagemeta"
	"github.com/petermazzocco/picture-picker/internal/ranking"
	"github.com/petermazzocco/picture-picker/internal/store"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: http.StatusText(status), Message: message})
}

func parseJSONBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ranking.ErrInvalidValue),
		errors.Is(err, ranking.ErrUnknownSortMode),
		errors.Is(err, imagemeta.ErrNotImage):
		return http.StatusBadRequest
	case errors.Is(err, ranking.ErrPhotoNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ranking.ErrVoteConflict),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the response for err. Internal errors are logged and their
// details withheld from the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
		errorResponse(w, status, msg)
		return
	}
	errorResponse(w, status, err.Error())
}
