package server

import (
	"net/http"
)

type HintRequest struct {
	Room int `json:"room"`
}

type HintResponse struct {
	Room       int    `json:"room"`
	Hint       string `json:"hint"`
	Applied    bool   `json:"applied"`
	TimeLeftMs int64  `json:"timeLeftMs"`
}

// handleHint reveals the hint for the active room at the cost of the
// configured time penalty. A room's hint is paid for at most once; asking
// again returns the same text with no further penalty.
func handleHint(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, reg)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req HintRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := sess.machine.RequestHint(req.Room)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, HintResponse{
			Room:       req.Room,
			Hint:       sess.rooms[req.Room].Hint,
			Applied:    res.Applied,
			TimeLeftMs: res.TimeLeftMs,
		})
	}
}
