package server

import (
	"context"
	"errors"
	"math"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid input")
)

const (
	startingRating = 1000
	winDelta       = 100
	lossDelta      = -50

	minLevel     = 1.0
	maxLevel     = 10.0
	defaultLevel = 1.0
)

// Player is a roster entry with long-lived rating and win/loss totals.
type Player struct {
	Name              string  `json:"name"`
	Level             float64 `json:"level"`
	Rating            int     `json:"rating"`
	TournamentsPlayed int     `json:"tournamentsPlayed"`
	TotalWins         int     `json:"totalWins"`
	TotalLosses       int     `json:"totalLosses"`
	RegisteredAt      string  `json:"registeredAt"`
}

func (p Player) TotalMatches() int {
	return p.TotalWins + p.TotalLosses
}

// WinRate is the percentage of matches won, rounded to one decimal.
func (p Player) WinRate() float64 {
	total := p.TotalMatches()
	if total == 0 {
		return 0
	}
	return math.Round(float64(p.TotalWins)/float64(total)*1000) / 10
}

// applyOutcome adds (sign 1) or removes (sign -1) one match result.
func (p *Player) applyOutcome(won bool, sign int) {
	if won {
		p.Rating += sign * winDelta
		p.TotalWins += sign
	} else {
		p.Rating += sign * lossDelta
		p.TotalLosses += sign
	}
}

type PlayerStore interface {
	RegisterPlayer(ctx context.Context, name string, level float64) (Player, error)
	GetPlayer(ctx context.Context, name string) (Player, error)
	ListPlayers(ctx context.Context) ([]Player, error)
	UpdatePlayer(ctx context.Context, name string, level *float64, rating *int) (Player, error)
	DeletePlayer(ctx context.Context, name string) error
	TopPlayers(ctx context.Context, n int) ([]Player, error)
	MarkTournamentPlayed(ctx context.Context, names []string) error
	ApplyOutcome(ctx context.Context, winner, loser string, sign int) error
}

type TournamentStore interface {
	SaveTournament(ctx context.Context, doc tournamentDoc) error
	LatestTournament(ctx context.Context) (tournamentDoc, error)
}

type AdminStore interface {
	EnsureAdmin(ctx context.Context, email, password string) (created bool, err error)
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
