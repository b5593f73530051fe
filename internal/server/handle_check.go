package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/stadtaev/escaperoom/internal/verify"
)

// handleCheck is the stateless verification boundary. It answers with 200
// and an ok field no matter what it receives: malformed bodies, unknown
// levels, and internal failures all encode as ok=false with a reason,
// never as an error status. Accepted answers stay server-side.
func handleCheck(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verify.CheckRequest
		if err := readJSON(r, &req); err != nil {
			writeJSON(w, http.StatusOK, verify.CheckResponse{OK: false, Reason: verify.ReasonException})
			return
		}

		list, err := store.ListRooms(r.Context())
		if err != nil {
			logger.Error("listing rooms for check", "error", err)
			writeJSON(w, http.StatusOK, verify.CheckResponse{OK: false, Reason: verify.ReasonException})
			return
		}

		if req.Level < 0 || req.Level >= len(list) {
			writeJSON(w, http.StatusOK, verify.CheckResponse{OK: false, Reason: verify.ReasonBadLevel})
			return
		}

		sets := verify.FromRooms(answerLists(list), os.Getenv)
		writeJSON(w, http.StatusOK, verify.CheckResponse{OK: sets.Check(req.Level, req.Answer)})
	}
}
