package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stadtaev/escaperoom/internal/game"
)

type AnswerRequest struct {
	Room   int    `json:"room"`
	Answer string `json:"answer"`
}

type AnswerResponse struct {
	Correct    bool  `json:"correct"`
	Room       int   `json:"room"`
	LastRoom   bool  `json:"lastRoom"`
	TimeLeftMs int64 `json:"timeLeftMs"`
}

func handleAnswer(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, reg)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Answer) == "" {
			writeError(w, http.StatusBadRequest, "answer is required")
			return
		}

		res, err := sess.machine.SubmitAnswer(r.Context(), req.Room, req.Answer)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AnswerResponse{
			Correct:    res.Correct,
			Room:       res.Room,
			LastRoom:   res.LastRoom,
			TimeLeftMs: res.TimeLeftMs,
		})
	}
}

// writeGameError maps state machine rejections to HTTP statuses. Everything
// here is a conflict with the session's current state, not a server fault.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotPlaying):
		writeError(w, http.StatusConflict, "game is not in play")
	case errors.Is(err, game.ErrRoomOutOfRange):
		writeError(w, http.StatusConflict, "room index out of range")
	case errors.Is(err, game.ErrWrongRoom):
		writeError(w, http.StatusConflict, "not the active room")
	case errors.Is(err, game.ErrAlreadySolved):
		writeError(w, http.StatusConflict, "room already solved")
	case errors.Is(err, game.ErrCheckPending):
		writeError(w, http.StatusConflict, "a check for this room is already in flight")
	case errors.Is(err, game.ErrNotSolved):
		writeError(w, http.StatusConflict, "room is not solved yet")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
