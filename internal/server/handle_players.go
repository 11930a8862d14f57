package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PlayerResponse is a roster entry with derived statistics.
type PlayerResponse struct {
	Name              string  `json:"name"`
	Level             float64 `json:"level"`
	Rating            int     `json:"rating"`
	TournamentsPlayed int     `json:"tournamentsPlayed"`
	TotalWins         int     `json:"totalWins"`
	TotalLosses       int     `json:"totalLosses"`
	TotalMatches      int     `json:"totalMatches"`
	WinRate           float64 `json:"winRate"`
	RegisteredAt      string  `json:"registeredAt"`
}

// RegisterPlayerRequest is the request body for POST /api/players.
// Level defaults to 1.0.
type RegisterPlayerRequest struct {
	Name  string   `json:"name"`
	Level *float64 `json:"level,omitempty"`
}

// UpdatePlayerRequest is the request body for PUT /api/players/{name}.
type UpdatePlayerRequest struct {
	Level  *float64 `json:"level,omitempty"`
	Rating *int     `json:"rating,omitempty"`
}

func playerResponse(p Player) PlayerResponse {
	return PlayerResponse{
		Name:              p.Name,
		Level:             p.Level,
		Rating:            p.Rating,
		TournamentsPlayed: p.TournamentsPlayed,
		TotalWins:         p.TotalWins,
		TotalLosses:       p.TotalLosses,
		TotalMatches:      p.TotalMatches(),
		WinRate:           p.WinRate(),
		RegisteredAt:      p.RegisteredAt,
	}
}

func handleListPlayers(logger *slog.Logger, players PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := players.ListPlayers(r.Context())
		if err != nil {
			logger.Error("listing players", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]PlayerResponse, 0, len(list))
		for _, p := range list {
			out = append(out, playerResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGetPlayer(players PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := players.GetPlayer(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, playerResponse(p))
	}
}

func handleRegisterPlayer(logger *slog.Logger, players PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		level := defaultLevel
		if req.Level != nil {
			level = *req.Level
		}

		p, err := players.RegisterPlayer(r.Context(), req.Name, level)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		logger.Info("player registered", "player", p.Name, "level", p.Level)
		writeJSON(w, http.StatusCreated, playerResponse(p))
	}
}

func handleUpdatePlayer(logger *slog.Logger, players PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Level == nil && req.Rating == nil {
			writeError(w, http.StatusBadRequest, "level or rating is required")
			return
		}

		p, err := players.UpdatePlayer(r.Context(), chi.URLParam(r, "name"), req.Level, req.Rating)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		logger.Info("player updated", "player", p.Name, "level", p.Level, "rating", p.Rating)
		writeJSON(w, http.StatusOK, playerResponse(p))
	}
}

func handleDeletePlayer(logger *slog.Logger, players PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := players.DeletePlayer(r.Context(), name); err != nil {
			writeDomainError(w, err)
			return
		}
		logger.Info("player deleted", "player", name)
		writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	}
}
