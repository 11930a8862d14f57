package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stadtaev/tennisfinals/internal/tennis"
)

var errNoTournament = errors.New("no tournament has been created")

// Arena owns the current tournament. Writes hold the lock exclusively and
// reads share it, so a reader never sees a half-applied result.
type Arena struct {
	logger *slog.Logger
	store  TournamentStore
	sink   tennis.OutcomeSink

	mu  sync.RWMutex
	t   *tennis.Tournament
	doc tournamentDoc
}

func NewArena(logger *slog.Logger, store TournamentStore, sink tennis.OutcomeSink) *Arena {
	return &Arena{logger: logger, store: store, sink: sink}
}

// Transition reports the tournament phase around a write.
type Transition struct {
	ID     string
	Before tennis.Phase
	After  tennis.Phase
}

func (tr Transition) entered(p tennis.Phase) bool {
	return tr.After == p && tr.Before != p
}

func gridDocFrom(g tennis.Grid) gridDoc {
	return gridDoc{
		StartMinutes: int(g.Start / time.Minute),
		SlotMinutes:  int(g.Slot / time.Minute),
	}
}

func (g gridDoc) grid() tennis.Grid {
	if g.SlotMinutes == 0 {
		return tennis.DefaultGrid()
	}
	return tennis.Grid{
		Start: time.Duration(g.StartMinutes) * time.Minute,
		Slot:  time.Duration(g.SlotMinutes) * time.Minute,
	}
}

// Restore loads the most recent tournament and replays its journal with the
// outcome sink detached, so ratings are not counted twice.
func (a *Arena) Restore(ctx context.Context) error {
	doc, err := a.store.LatestTournament(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading tournament: %w", err)
	}

	t, err := rebuild(doc)
	if err != nil {
		return fmt.Errorf("replaying tournament %s: %w", doc.ID, err)
	}
	t.SetSink(a.sink)

	a.mu.Lock()
	a.t, a.doc = t, doc
	a.mu.Unlock()

	a.logger.Info("tournament restored",
		"tournament", doc.ID,
		"phase", t.Phase(),
		"journal", len(doc.Journal),
	)
	return nil
}

func rebuild(doc tournamentDoc) (*tennis.Tournament, error) {
	rule, err := tennis.RuleFor(tennis.Format(doc.Format))
	if err != nil {
		return nil, err
	}
	entries := make([]tennis.Entry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		entries = append(entries, tennis.Entry{Name: e.Name, Seed: e.Seed, Level: e.Level})
	}
	t, err := tennis.New(rule, entries, tennis.WithGrid(doc.Grid.grid()))
	if err != nil {
		return nil, err
	}
	for i, e := range doc.Journal {
		if err := apply(t, e); err != nil {
			return nil, fmt.Errorf("journal entry %d (%s): %w", i, e.Op, err)
		}
	}
	return t, nil
}

func apply(t *tennis.Tournament, e journalEntry) error {
	switch e.Op {
	case opGroupResult:
		return t.RecordGroupResult(e.Group, e.Player1, e.Player2, e.Score)
	case opBeginPlayoffs:
		return t.BeginPlayoffs()
	case opPlayoffResult:
		stage, err := tennis.ParsePlayoffStage(e.Stage)
		if err != nil {
			return err
		}
		return t.RecordPlayoffResult(stage, e.Player1, e.Player2, e.Score)
	}
	return fmt.Errorf("unknown operation %q: %w", e.Op, ErrInvalid)
}

// Create replaces the current tournament with a new one.
func (a *Arena) Create(ctx context.Context, rule tennis.ScoreRule, grid tennis.Grid, entries []tennis.Entry) (string, error) {
	t, err := tennis.New(rule, entries, tennis.WithGrid(grid))
	if err != nil {
		return "", err
	}

	now := nowUTC()
	doc := tournamentDoc{
		ID:        newID(),
		Format:    string(rule.Format()),
		Grid:      gridDocFrom(grid),
		Journal:   []journalEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, e := range t.Entries() {
		doc.Entries = append(doc.Entries, entryDoc{Name: e.Name, Seed: e.Seed, Level: e.Level})
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.SaveTournament(ctx, doc); err != nil {
		return "", fmt.Errorf("saving tournament: %w", err)
	}
	t.SetSink(a.sink)
	a.t, a.doc = t, doc
	return doc.ID, nil
}

// Apply runs one write against the current tournament and saves the journal.
// A rejected write leaves both the tournament and the journal unchanged.
func (a *Arena) Apply(ctx context.Context, e journalEntry) (Transition, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.t == nil {
		return Transition{}, errNoTournament
	}
	before := a.t.Phase()
	if err := apply(a.t, e); err != nil {
		return Transition{}, err
	}

	if e.At == "" {
		e.At = nowUTC()
	}
	a.doc.Journal = append(a.doc.Journal, e)
	a.doc.UpdatedAt = e.At
	tr := Transition{ID: a.doc.ID, Before: before, After: a.t.Phase()}

	// The write stays applied in memory; the journal goes out with the next save.
	if err := a.store.SaveTournament(ctx, a.doc); err != nil {
		return tr, fmt.Errorf("saving tournament %s: %w", a.doc.ID, err)
	}
	return tr, nil
}

// View calls fn with the current tournament under the read lock. fn must not
// retain t or mutate it.
func (a *Arena) View(fn func(id string, t *tennis.Tournament) error) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.t == nil {
		return errNoTournament
	}
	return fn(a.doc.ID, a.t)
}
