package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"tabsplit/internal/room"
	"tabsplit/internal/service"
	"tabsplit/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor maps core precondition failures to HTTP statuses. Every one of
// them means "state unchanged"; the status only tells the caller why.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrRoomNotFound),
		errors.Is(err, room.ErrItemNotFound),
		errors.Is(err, room.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrRegistryFull),
		errors.Is(err, room.ErrRegistryFloor),
		errors.Is(err, room.ErrDuplicateMember),
		errors.Is(err, storage.ErrRoomExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrWrongPIN):
		return http.StatusForbidden
	case errors.Is(err, room.ErrBlankName),
		errors.Is(err, room.ErrBlankPrice),
		errors.Is(err, room.ErrNameTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// pathParam returns a chi URL parameter with percent-escapes resolved, so
// room and member names containing spaces round-trip through URLs.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}
