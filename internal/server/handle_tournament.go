package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stadtaev/tennisfinals/internal/tennis"
)

// CreateTournamentRequest is the request body for POST /api/tournament.
// Without players the top of the roster by rating is entered.
type CreateTournamentRequest struct {
	Format  string   `json:"format,omitempty"`
	Players []string `json:"players,omitempty"`
}

// Defaults are the tournament settings used when a request leaves them out.
type Defaults struct {
	Format     tennis.Format
	Grid       tennis.Grid
	RosterSize int
}

func handleCreateTournament(logger *slog.Logger, players PlayerStore, arena *Arena, broker *Broker, defaults Defaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTournamentRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		format := defaults.Format
		if req.Format != "" {
			format = tennis.Format(req.Format)
		}
		rule, err := tennis.RuleFor(format)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		roster, err := tournamentRoster(r, logger, players, req.Players, defaults.RosterSize)
		if err != nil {
			if errorStatus(err) == http.StatusInternalServerError {
				logger.Error("loading roster", "error", err)
			}
			writeDomainError(w, err)
			return
		}

		entries := make([]tennis.Entry, 0, len(roster))
		names := make([]string, 0, len(roster))
		for i, p := range roster {
			entries = append(entries, tennis.Entry{Name: p.Name, Seed: i + 1, Level: p.Level})
			names = append(names, p.Name)
		}

		id, err := arena.Create(r.Context(), rule, defaults.Grid, entries)
		if err != nil {
			if errorStatus(err) == http.StatusInternalServerError {
				logger.Error("creating tournament", "error", err)
			}
			writeDomainError(w, err)
			return
		}
		logger.Info("tournament created",
			"tournament", id,
			"format", format,
			"entrants", len(entries),
			"admin", adminFrom(r).Email,
		)

		if err := players.MarkTournamentPlayed(r.Context(), names); err != nil {
			logger.Error("counting tournament for entrants", "tournament", id, "error", err)
		}

		broker.Publish(tournamentTopic, Event{
			Type:         eventTournamentCreated,
			TournamentID: id,
			Phase:        string(tennis.PhaseGroupsInProgress),
		})

		writeTournament(w, arena, http.StatusCreated)
	}
}

// tournamentRoster resolves the entrants in seed order. Named players come
// from the roster as given; otherwise the top size players by rating are used,
// seeding the default roster first if it is short.
func tournamentRoster(r *http.Request, logger *slog.Logger, players PlayerStore, names []string, size int) ([]Player, error) {
	ctx := r.Context()
	if len(names) == 0 {
		if err := SeedRoster(ctx, logger, players, size); err != nil {
			return nil, fmt.Errorf("seeding roster: %w", err)
		}
		return players.TopPlayers(ctx, size)
	}

	out := make([]Player, 0, len(names))
	for _, name := range names {
		p, err := players.GetPlayer(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func handleGetTournament(arena *Arena) http.HandlerFunc {
	return viewHandler(arena, func(r *http.Request, id string, t *tennis.Tournament) (any, error) {
		return tournamentView(id, t)
	})
}

func handleGetSchedule(arena *Arena) http.HandlerFunc {
	return viewHandler(arena, func(r *http.Request, id string, t *tennis.Tournament) (any, error) {
		return ScheduleResponse{ID: id, Fixtures: scheduleItems(t.Schedule())}, nil
	})
}

func handleGetStandings(arena *Arena) http.HandlerFunc {
	return viewHandler(arena, func(r *http.Request, id string, t *tennis.Tournament) (any, error) {
		g, err := t.Group(chi.URLParam(r, "group"))
		if err != nil {
			return nil, err
		}
		rows, err := t.Standings(g.Name)
		if err != nil {
			return nil, err
		}
		return StandingsResponse{Group: g.Label(), Standings: standingItems(rows)}, nil
	})
}

func handleGetResults(arena *Arena) http.HandlerFunc {
	return viewHandler(arena, func(r *http.Request, id string, t *tennis.Tournament) (any, error) {
		return podiumView(id, t)
	})
}

// viewHandler renders fn's result under the arena's read lock.
func viewHandler(arena *Arena, fn func(r *http.Request, id string, t *tennis.Tournament) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp any
		err := arena.View(func(id string, t *tennis.Tournament) error {
			var err error
			resp, err = fn(r, id, t)
			return err
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleBeginPlayoffs(logger *slog.Logger, arena *Arena, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tr, ok := applyWrite(w, r, logger, arena, journalEntry{Op: opBeginPlayoffs})
		if !ok {
			return
		}
		if tr.entered(tennis.PhaseSemifinalsScheduled) {
			logger.Info("playoffs started", "tournament", tr.ID)
		}
		broker.Publish(tournamentTopic, Event{
			Type:         eventPlayoffsStarted,
			TournamentID: tr.ID,
			Phase:        string(tr.After),
		})
		writeTournament(w, arena, http.StatusOK)
	}
}

func writeTournament(w http.ResponseWriter, arena *Arena, status int) {
	var resp TournamentResponse
	err := arena.View(func(id string, t *tennis.Tournament) error {
		var err error
		resp, err = tournamentView(id, t)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, status, resp)
}
