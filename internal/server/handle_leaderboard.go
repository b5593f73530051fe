package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/stadtaev/escaperoom/internal/game"
)

type LeaderboardSubmitRequest struct {
	Name string `json:"name"`
}

func handleLeaderboardList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := store.ListScores(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if scores == nil {
			scores = []ScoreEntry{}
		}
		writeJSON(w, http.StatusOK, scores)
	}
}

// handleLeaderboardSubmit appends one leaderboard entry for a won session.
// The score is the seconds remaining at the moment of winning, not at the
// moment of submission.
func handleLeaderboardSubmit(reg *Registry, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, reg)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req LeaderboardSubmitRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		st := sess.machine.State()
		if st.Phase != game.Won {
			writeError(w, http.StatusConflict, "game is not won")
			return
		}
		if !reg.MarkScoreSubmitted(sess) {
			writeError(w, http.StatusConflict, "score already submitted")
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = "Unnamed team"
		}

		entry := ScoreEntry{
			Name:             name,
			SecondsRemaining: st.FinalSeconds,
			Date:             time.Now().UTC().Format("2006-01-02"),
		}
		if err := store.AddScore(r.Context(), entry); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}
