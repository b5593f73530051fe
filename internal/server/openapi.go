package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/stadtaev/escaperoom/internal/rooms"
	"github.com/stadtaev/escaperoom/internal/verify"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency name to its status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Escape Room API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the escape room trivia game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/session/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/session/start")
	postStart.SetSummary("Start or resume a session")
	postStart.SetDescription("Starts a new game session, or resumes an existing one when a valid token is supplied.")
	postStart.AddReqStructure(StartSessionRequest{})
	postStart.AddRespStructure(StartSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postStart)

	// GET /api/session/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/session/state")
	getState.SetSummary("Get session state")
	getState.SetDescription("Returns the full game state for the session. Requires Bearer token.")
	getState.AddRespStructure(SessionStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/game/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/game/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Submit an answer for the current room. Requires Bearer token.")
	postAnswer.AddReqStructure(AnswerRequest{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAnswer)

	// POST /api/game/hint
	postHint, _ := r.NewOperationContext(http.MethodPost, "/api/game/hint")
	postHint.SetSummary("Reveal hint")
	postHint.SetDescription("Reveals the hint for the current room, deducting a time penalty on first use. Requires Bearer token.")
	postHint.AddReqStructure(HintRequest{})
	postHint.AddRespStructure(HintResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postHint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postHint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postHint)

	// POST /api/game/advance
	postAdvance, _ := r.NewOperationContext(http.MethodPost, "/api/game/advance")
	postAdvance.SetSummary("Advance to the next room")
	postAdvance.SetDescription("Moves past a solved room. Advancing past the final room wins the game. Requires Bearer token.")
	postAdvance.AddReqStructure(AdvanceRequest{})
	postAdvance.AddRespStructure(AdvanceResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postAdvance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAdvance)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream for real-time game updates. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/check
	postCheck, _ := r.NewOperationContext(http.MethodPost, "/api/check")
	postCheck.SetSummary("Stateless answer check")
	postCheck.SetDescription("Checks an answer against a room without a session. Always returns 200; failures are reported in the body.")
	postCheck.AddReqStructure(verify.CheckRequest{})
	postCheck.AddRespStructure(verify.CheckResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postCheck)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("List leaderboard")
	getLeaderboard.SetDescription("Returns all scores ordered by seconds remaining, best first.")
	getLeaderboard.AddRespStructure([]ScoreEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	// POST /api/leaderboard
	postLeaderboard, _ := r.NewOperationContext(http.MethodPost, "/api/leaderboard")
	postLeaderboard.SetSummary("Submit score")
	postLeaderboard.SetDescription("Records the score for a won session. One submission per session. Requires Bearer token.")
	postLeaderboard.AddReqStructure(LeaderboardSubmitRequest{})
	postLeaderboard.AddRespStructure(ScoreEntry{}, openapi.WithHTTPStatus(http.StatusCreated))
	postLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postLeaderboard)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/rooms
	listRooms, _ := r.NewOperationContext(http.MethodGet, "/api/admin/rooms")
	listRooms.SetSummary("List rooms")
	listRooms.SetDescription("Returns the full room list including answers and hints. Requires admin_session cookie.")
	listRooms.AddRespStructure([]rooms.Room{}, openapi.WithHTTPStatus(http.StatusOK))
	listRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listRooms)

	// PUT /api/admin/rooms
	replaceRooms, _ := r.NewOperationContext(http.MethodPut, "/api/admin/rooms")
	replaceRooms.SetSummary("Replace rooms")
	replaceRooms.SetDescription("Replaces the ordered room list. Requires admin_session cookie.")
	replaceRooms.AddReqStructure([]rooms.Room{})
	replaceRooms.AddRespStructure([]rooms.Room{}, openapi.WithHTTPStatus(http.StatusOK))
	replaceRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	replaceRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(replaceRooms)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
