package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Document types stored as JSONB in per-model tables.

type tournamentDoc struct {
	ID        string         `json:"id"`
	Format    string         `json:"format"`
	Grid      gridDoc        `json:"grid"`
	Entries   []entryDoc     `json:"entries"`
	Journal   []journalEntry `json:"journal"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

type gridDoc struct {
	StartMinutes int `json:"startMinutes"`
	SlotMinutes  int `json:"slotMinutes"`
}

type entryDoc struct {
	Name  string  `json:"name"`
	Seed  int     `json:"seed"`
	Level float64 `json:"level"`
}

// journalEntry is one successful write against a tournament. Replaying the
// journal in order over the entries rebuilds the tournament.
type journalEntry struct {
	Op      string `json:"op"`
	Group   string `json:"group,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Player1 string `json:"player1,omitempty"`
	Player2 string `json:"player2,omitempty"`
	Score   string `json:"score,omitempty"`
	At      string `json:"at"`
}

const (
	opGroupResult   = "group_result"
	opBeginPlayoffs = "begin_playoffs"
	opPlayoffResult = "playoff_result"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DocStore implements PlayerStore and TournamentStore using per-model tables
// with JSONB data columns.
type DocStore struct {
	db *sql.DB
}

// NewDocStore expects the schema from the migrations package.
func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

func (s *DocStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Players

func getPlayer(ctx context.Context, q querier, name string) (Player, error) {
	var data string
	err := q.QueryRowContext(ctx,
		`SELECT json(data) FROM players WHERE name = ?`, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("player %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Player{}, err
	}
	var p Player
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Player{}, err
	}
	return p, nil
}

func putPlayer(ctx context.Context, q querier, p Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO players (name, rating, data) VALUES (?, ?, jsonb(?))
		 ON CONFLICT(name) DO UPDATE SET rating = excluded.rating, data = excluded.data`,
		p.Name, p.Rating, string(data),
	)
	return err
}

func validLevel(level float64) bool {
	return level >= minLevel && level <= maxLevel
}

func (s *DocStore) RegisterPlayer(ctx context.Context, name string, level float64) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, fmt.Errorf("player name is required: %w", ErrInvalid)
	}
	if !validLevel(level) {
		return Player{}, fmt.Errorf("level must be between %.0f and %.0f: %w", minLevel, maxLevel, ErrInvalid)
	}

	p := Player{
		Name:         name,
		Level:        level,
		Rating:       startingRating,
		RegisteredAt: nowUTC(),
	}
	data, err := json.Marshal(p)
	if err != nil {
		return Player{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO players (name, rating, data) VALUES (?, ?, jsonb(?))
		 ON CONFLICT(name) DO NOTHING`,
		p.Name, p.Rating, string(data),
	)
	if err != nil {
		return Player{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Player{}, fmt.Errorf("player %q is already registered: %w", name, ErrConflict)
	}
	return p, nil
}

func (s *DocStore) GetPlayer(ctx context.Context, name string) (Player, error) {
	return getPlayer(ctx, s.db, name)
}

func (s *DocStore) queryPlayers(ctx context.Context, query string, args ...any) ([]Player, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p Player
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ListPlayers returns the roster by rating, highest first, then by name.
func (s *DocStore) ListPlayers(ctx context.Context) ([]Player, error) {
	return s.queryPlayers(ctx,
		`SELECT json(data) FROM players ORDER BY rating DESC, name`,
	)
}

func (s *DocStore) TopPlayers(ctx context.Context, n int) ([]Player, error) {
	return s.queryPlayers(ctx,
		`SELECT json(data) FROM players ORDER BY rating DESC, name LIMIT ?`, n,
	)
}

// modifyPlayer loads a player, applies fn, and saves it within tx.
func modifyPlayer(ctx context.Context, tx *sql.Tx, name string, fn func(*Player) error) (Player, error) {
	p, err := getPlayer(ctx, tx, name)
	if err != nil {
		return Player{}, err
	}
	if err := fn(&p); err != nil {
		return Player{}, err
	}
	if err := putPlayer(ctx, tx, p); err != nil {
		return Player{}, err
	}
	return p, nil
}

func (s *DocStore) UpdatePlayer(ctx context.Context, name string, level *float64, rating *int) (Player, error) {
	var out Player
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = modifyPlayer(ctx, tx, name, func(p *Player) error {
			if level != nil {
				if !validLevel(*level) {
					return fmt.Errorf("level must be between %.0f and %.0f: %w", minLevel, maxLevel, ErrInvalid)
				}
				p.Level = *level
			}
			if rating != nil {
				if *rating < 0 {
					return fmt.Errorf("rating cannot be negative: %w", ErrInvalid)
				}
				p.Rating = *rating
			}
			return nil
		})
		return err
	})
	return out, err
}

func (s *DocStore) DeletePlayer(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("player %q: %w", name, ErrNotFound)
	}
	return nil
}

// MarkTournamentPlayed counts one tournament for each named player. Unknown
// names are skipped.
func (s *DocStore) MarkTournamentPlayed(ctx context.Context, names []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, name := range names {
			_, err := modifyPlayer(ctx, tx, name, func(p *Player) error {
				p.TournamentsPlayed++
				return nil
			})
			if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
		return nil
	})
}

// ApplyOutcome records (sign 1) or reverts (sign -1) a match result on both
// players' ratings. Players no longer on the roster are skipped.
func (s *DocStore) ApplyOutcome(ctx context.Context, winner, loser string, sign int) error {
	if sign != 1 && sign != -1 {
		return fmt.Errorf("outcome sign %d: %w", sign, ErrInvalid)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, side := range []struct {
			name string
			won  bool
		}{{winner, true}, {loser, false}} {
			_, err := modifyPlayer(ctx, tx, side.name, func(p *Player) error {
				p.applyOutcome(side.won, sign)
				return nil
			})
			if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
		return nil
	})
}

// Tournaments

func (s *DocStore) SaveTournament(ctx context.Context, doc tournamentDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tournaments (id, created_at, updated_at, data) VALUES (?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, data = excluded.data`,
		doc.ID, doc.CreatedAt, doc.UpdatedAt, string(data),
	)
	return err
}

// LatestTournament returns the most recently created tournament.
func (s *DocStore) LatestTournament(ctx context.Context) (tournamentDoc, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM tournaments ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return tournamentDoc{}, ErrNotFound
	}
	if err != nil {
		return tournamentDoc{}, err
	}
	var doc tournamentDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return tournamentDoc{}, err
	}
	return doc, nil
}
