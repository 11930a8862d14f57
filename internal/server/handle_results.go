package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/stadtaev/tennisfinals/internal/tennis"
)

// GroupResultRequest is the request body for POST /api/tournament/results/group.
type GroupResultRequest struct {
	Group   string `json:"group"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Score   string `json:"score"`
}

// PlayoffResultRequest is the request body for POST /api/tournament/results/playoff.
// Stage is one of semifinal1, semifinal2, semifinal, third_place or final.
type PlayoffResultRequest struct {
	Stage   string `json:"stage"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Score   string `json:"score"`
}

// Archive stores completed tournaments.
type Archive interface {
	Put(ctx context.Context, id string, v any) error
	Get(ctx context.Context, id string) ([]byte, error)
}

func handleGroupResult(logger *slog.Logger, arena *Arena, broker *Broker, archive Archive) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GroupResultRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Player1 = strings.TrimSpace(req.Player1)
		req.Player2 = strings.TrimSpace(req.Player2)
		if strings.TrimSpace(req.Group) == "" || req.Player1 == "" || req.Player2 == "" {
			writeError(w, http.StatusBadRequest, "group, player1 and player2 are required")
			return
		}

		e := journalEntry{
			Op:      opGroupResult,
			Group:   strings.TrimSpace(req.Group),
			Player1: req.Player1,
			Player2: req.Player2,
			Score:   strings.TrimSpace(req.Score),
		}
		tr, ok := applyWrite(w, r, logger, arena, e)
		if !ok {
			return
		}
		resultRecorded(r.Context(), logger, arena, broker, archive, tr, e)
		writeTournament(w, arena, http.StatusOK)
	}
}

func handlePlayoffResult(logger *slog.Logger, arena *Arena, broker *Broker, archive Archive) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayoffResultRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Player1 = strings.TrimSpace(req.Player1)
		req.Player2 = strings.TrimSpace(req.Player2)
		if req.Player1 == "" || req.Player2 == "" {
			writeError(w, http.StatusBadRequest, "player1 and player2 are required")
			return
		}
		stage, err := tennis.ParsePlayoffStage(req.Stage)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		e := journalEntry{
			Op:      opPlayoffResult,
			Stage:   string(stage),
			Player1: req.Player1,
			Player2: req.Player2,
			Score:   strings.TrimSpace(req.Score),
		}
		tr, ok := applyWrite(w, r, logger, arena, e)
		if !ok {
			return
		}
		resultRecorded(r.Context(), logger, arena, broker, archive, tr, e)
		writeTournament(w, arena, http.StatusOK)
	}
}

// applyWrite runs e against the arena and writes the error response when the
// tournament rejects it. A failed save is logged only: the result is already
// live and the journal is saved again with the next write.
func applyWrite(w http.ResponseWriter, r *http.Request, logger *slog.Logger, arena *Arena, e journalEntry) (Transition, bool) {
	tr, err := arena.Apply(r.Context(), e)
	if err != nil && tr.ID == "" {
		if errorStatus(err) == http.StatusInternalServerError {
			logger.Error("applying tournament write", "op", e.Op, "error", err)
		}
		writeDomainError(w, err)
		return tr, false
	}
	if err != nil {
		logger.Error("saving tournament", "tournament", tr.ID, "op", e.Op, "error", err)
	}
	return tr, true
}

// resultRecorded publishes the events a result causes and archives the
// tournament once the final is decided.
func resultRecorded(ctx context.Context, logger *slog.Logger, arena *Arena, broker *Broker, archive Archive, tr Transition, e journalEntry) {
	logger.Info("result recorded",
		"tournament", tr.ID,
		"op", e.Op,
		"group", e.Group,
		"stage", e.Stage,
		"player1", e.Player1,
		"player2", e.Player2,
		"score", e.Score,
		"phase", tr.After,
	)

	stage := e.Stage
	if stage == "" {
		stage = e.Group
	}
	broker.Publish(tournamentTopic, Event{
		Type:         eventResultRecorded,
		TournamentID: tr.ID,
		Phase:        string(tr.After),
		Stage:        stage,
		Player1:      e.Player1,
		Player2:      e.Player2,
		Score:        e.Score,
	})
	if tr.entered(tennis.PhaseFinalsScheduled) {
		broker.Publish(tournamentTopic, Event{
			Type:         eventFinalsScheduled,
			TournamentID: tr.ID,
			Phase:        string(tr.After),
		})
	}
	if tr.entered(tennis.PhaseComplete) {
		broker.Publish(tournamentTopic, Event{
			Type:         eventTournamentCompleted,
			TournamentID: tr.ID,
			Phase:        string(tr.After),
		})
	}

	if tr.After == tennis.PhaseComplete && archive != nil {
		archiveTournament(ctx, logger, arena, archive)
	}
}

// archiveTournament writes the finished tournament to the archive. Failures
// are logged and do not affect the request.
func archiveTournament(ctx context.Context, logger *slog.Logger, arena *Arena, archive Archive) {
	var rec ArchiveRecord
	err := arena.View(func(id string, t *tennis.Tournament) error {
		var err error
		rec, err = archiveRecord(id, t)
		return err
	})
	if err != nil {
		logger.Error("building archive record", "error", err)
		return
	}
	if err := archive.Put(ctx, rec.ID, rec); err != nil {
		logger.Error("archiving tournament", "tournament", rec.ID, "error", err)
		return
	}
	logger.Info("tournament archived", "tournament", rec.ID)
}
