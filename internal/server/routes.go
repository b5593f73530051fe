package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, reg *Registry, broker *Broker, db *sql.DB, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Escape Room API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Player routes; the session is resolved from the Bearer token.
	r.Post("/api/session/start", handleSessionStart(logger, reg))
	r.Get("/api/session/state", handleSessionState(reg))
	r.Post("/api/game/answer", handleAnswer(reg))
	r.Post("/api/game/hint", handleHint(reg))
	r.Post("/api/game/advance", handleAdvance(reg))
	r.Get("/api/game/events", handleEvents(reg, broker))

	// Stateless check, mirrors the player surface without a session.
	r.Post("/api/check", handleCheck(logger, store))

	r.Get("/api/leaderboard", handleLeaderboardList(store))
	r.Post("/api/leaderboard", handleLeaderboardSubmit(reg, store))

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(store))
	r.Post("/api/admin/logout", handleAdminLogout(store))
	r.Get("/api/admin/me", handleAdminMe(store))

	// Admin room authoring.
	r.Route("/api/admin/rooms", func(r chi.Router) {
		r.Use(adminAuthMiddleware(store))
		r.Get("/", handleAdminListRooms(store))
		r.Put("/", handleAdminReplaceRooms(store))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
