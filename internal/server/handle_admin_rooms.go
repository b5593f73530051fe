package server

import (
	"net/http"

	"github.com/stadtaev/escaperoom/internal/rooms"
)

// handleAdminListRooms returns the full room list including answers and
// hints. Admin-only; the player surface never sees these fields.
func handleAdminListRooms(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListRooms(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if list == nil {
			list = []rooms.Room{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// handleAdminReplaceRooms replaces the ordered room list wholesale. Sessions
// already in play keep the rooms they started with; new sessions pick up
// the new list.
func handleAdminReplaceRooms(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var list []rooms.Room
		if err := readJSON(r, &list); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := rooms.Validate(list); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.ReplaceRooms(r.Context(), list); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
