package server

import (
	"net/http"
)

type AdvanceRequest struct {
	Room int `json:"room"`
}

type AdvanceResponse struct {
	Current int    `json:"current"`
	Phase   string `json:"phase"`
	Won     bool   `json:"won"`
}

// handleAdvance moves past a solved room. Solving never auto-advances;
// this explicit step is what unlocks the next room, and advancing past the
// last room wins the game.
func handleAdvance(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, reg)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req AdvanceRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := sess.machine.Advance(req.Room)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AdvanceResponse{
			Current: res.Current,
			Phase:   sess.machine.State().Phase.String(),
			Won:     res.Won,
		})
	}
}
