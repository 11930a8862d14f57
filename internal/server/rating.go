package server

import (
	"context"
	"log/slog"
	"sync"
)

type outcome struct {
	winner string
	loser  string
	sign   int
}

// RatingWorker applies match outcomes to the roster in the background. It
// implements tennis.OutcomeSink; outcomes that do not fit in the queue are
// dropped with a warning.
type RatingWorker struct {
	logger  *slog.Logger
	players PlayerStore

	mu     sync.RWMutex
	closed bool
	queue  chan outcome
}

func NewRatingWorker(logger *slog.Logger, players PlayerStore, size int) *RatingWorker {
	return &RatingWorker{
		logger:  logger,
		players: players,
		queue:   make(chan outcome, size),
	}
}

func (w *RatingWorker) Record(winner, loser string) {
	w.enqueue(outcome{winner: winner, loser: loser, sign: 1})
}

func (w *RatingWorker) Revert(winner, loser string) {
	w.enqueue(outcome{winner: winner, loser: loser, sign: -1})
}

func (w *RatingWorker) enqueue(o outcome) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.logger.Warn("rating worker stopped, dropping outcome",
			"winner", o.winner,
			"loser", o.loser,
			"sign", o.sign,
		)
		return
	}
	select {
	case w.queue <- o:
	default:
		w.logger.Warn("rating queue full, dropping outcome",
			"winner", o.winner,
			"loser", o.loser,
			"sign", o.sign,
		)
	}
}

// Close stops accepting outcomes. Run returns once everything queued before
// Close has been applied.
func (w *RatingWorker) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
}

// Run applies queued outcomes until Close is called. Cancelling ctx does not
// stop the worker or interrupt writes; callers close it after the last
// writer, usually the HTTP server, has shut down.
func (w *RatingWorker) Run(ctx context.Context) error {
	writeCtx := context.WithoutCancel(ctx)
	for o := range w.queue {
		w.apply(writeCtx, o)
	}
	return nil
}

func (w *RatingWorker) apply(ctx context.Context, o outcome) {
	if err := w.players.ApplyOutcome(ctx, o.winner, o.loser, o.sign); err != nil {
		w.logger.Error("applying rating outcome",
			"winner", o.winner,
			"loser", o.loser,
			"sign", o.sign,
			"error", err,
		)
		return
	}
	w.logger.Debug("rating outcome applied", "winner", o.winner, "loser", o.loser, "sign", o.sign)
}
