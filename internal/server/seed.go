package server

import (
	"context"
	"errors"
	"log/slog"
)

type rosterSeed struct {
	name  string
	level float64
}

var defaultRoster = []rosterSeed{
	{"Masha", 4},
	{"Oleksandr", 4},
	{"Yaroslav", 3.5},
	{"Vova", 3.5},
	{"Alex", 3.5},
	{"Igor", 4},
	{"Jonathan", 4},
	{"Oleg", 3.5},
	{"Vito", 3.5},
	{"Florian", 3.5},
}

// SeedRoster registers the default players when the roster holds fewer than
// size players. Names already on the roster are skipped.
func SeedRoster(ctx context.Context, logger *slog.Logger, players PlayerStore, size int) error {
	existing, err := players.ListPlayers(ctx)
	if err != nil {
		return err
	}
	if len(existing) >= size {
		return nil
	}

	added := 0
	for _, s := range defaultRoster {
		_, err := players.RegisterPlayer(ctx, s.name, s.level)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return err
		}
		added++
	}

	if added > 0 {
		logger.Info("default roster seeded", "added", added)
	}
	return nil
}
