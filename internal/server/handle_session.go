package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// RoomView is the player-visible slice of a room. Accepted answers never
// leave the server; hint text only appears after the hint was bought.
type RoomView struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Intro    string `json:"intro,omitempty"`
	Prompt   string `json:"prompt"`
	Solved   bool   `json:"solved"`
	HintUsed bool   `json:"hintUsed"`
	Hint     string `json:"hint,omitempty"`
}

type SessionStateResponse struct {
	Phase      string       `json:"phase"`
	TimeLeftMs int64        `json:"timeLeftMs"`
	Current    int          `json:"current"`
	TotalRooms int          `json:"totalRooms"`
	Solved     map[int]bool `json:"solved"`
	HintsUsed  map[int]bool `json:"hintsUsed"`
	Rooms      []RoomView   `json:"rooms"`
}

type StartSessionRequest struct {
	Token string `json:"token,omitempty"`
}

type StartSessionResponse struct {
	Token   string               `json:"token"`
	Resumed bool                 `json:"resumed"`
	State   SessionStateResponse `json:"state"`
}

func sessionState(sess *liveSession) SessionStateResponse {
	st := sess.machine.State()

	views := make([]RoomView, len(sess.rooms))
	for i, room := range sess.rooms {
		v := RoomView{
			Index:    i,
			Title:    room.Title,
			Intro:    room.Intro,
			Prompt:   room.Prompt,
			Solved:   st.Solved[i],
			HintUsed: st.HintsUsed[i],
		}
		if v.HintUsed {
			v.Hint = room.Hint
		}
		views[i] = v
	}

	return SessionStateResponse{
		Phase:      st.Phase.String(),
		TimeLeftMs: st.TimeLeftMs,
		Current:    st.Current,
		TotalRooms: st.RoomCount,
		Solved:     st.Solved,
		HintsUsed:  st.HintsUsed,
		Rooms:      views,
	}
}

// handleSessionStart starts a fresh session, or resumes the one named by the
// optional token if a fresh-enough snapshot survives. A stale or unknown
// token silently falls back to a fresh session.
func handleSessionStart(logger *slog.Logger, reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartSessionRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Token != "" {
			sess, err := reg.Get(r.Context(), req.Token)
			if err == nil {
				writeJSON(w, http.StatusOK, StartSessionResponse{
					Token:   req.Token,
					Resumed: true,
					State:   sessionState(sess),
				})
				return
			}
			if !errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		token, sess, err := reg.Start(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		logger.Info("session started", "session", token, "rooms", len(sess.rooms))

		writeJSON(w, http.StatusOK, StartSessionResponse{
			Token: token,
			State: sessionState(sess),
		})
	}
}

func handleSessionState(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, reg)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}
		writeJSON(w, http.StatusOK, sessionState(sess))
	}
}

func sessionFromRequest(r *http.Request, reg *Registry) (*liveSession, error) {
	token, err := sessionToken(r)
	if err != nil {
		return nil, err
	}
	return reg.Get(r.Context(), token)
}
