package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggest/swgui/v5emb"
)

func newRouter(logger *slog.Logger, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	addRoutes(r, logger, deps)
	return r
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Tennis Finals API", "/openapi.json", "/docs"))

	// Public tournament views.
	r.Get("/api/tournament", handleGetTournament(deps.Arena))
	r.Get("/api/tournament/schedule", handleGetSchedule(deps.Arena))
	r.Get("/api/tournament/standings/{group}", handleGetStandings(deps.Arena))
	r.Get("/api/tournament/results", handleGetResults(deps.Arena))
	r.Get("/api/tournament/events", handleEvents(deps.Broker))
	r.Get("/api/players", handleListPlayers(logger, deps.Players))
	r.Get("/api/players/{name}", handleGetPlayer(deps.Players))
	r.Get("/api/archive/{id}", handleGetArchive(logger, deps.Archive))

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(logger, deps.Admin))
	r.Post("/api/admin/logout", handleAdminLogout(deps.Admin))
	r.Get("/api/admin/me", handleAdminMe(deps.Admin))

	// Writes require an admin session.
	r.Group(func(r chi.Router) {
		r.Use(adminAuthMiddleware(deps.Admin))

		r.Post("/api/tournament", handleCreateTournament(logger, deps.Players, deps.Arena, deps.Broker, deps.Defaults))
		r.Post("/api/tournament/playoffs", handleBeginPlayoffs(logger, deps.Arena, deps.Broker))
		r.Post("/api/tournament/results/group", handleGroupResult(logger, deps.Arena, deps.Broker, deps.Archive))
		r.Post("/api/tournament/results/playoff", handlePlayoffResult(logger, deps.Arena, deps.Broker, deps.Archive))

		r.Post("/api/players", handleRegisterPlayer(logger, deps.Players))
		r.Put("/api/players/{name}", handleUpdatePlayer(logger, deps.Players))
		r.Delete("/api/players/{name}", handleDeletePlayer(logger, deps.Players))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
