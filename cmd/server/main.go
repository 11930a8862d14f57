package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/stadtaev/tennisfinals/internal/archive"
	"github.com/stadtaev/tennisfinals/internal/config"
	"github.com/stadtaev/tennisfinals/internal/database"
	"github.com/stadtaev/tennisfinals/internal/handler/health"
	"github.com/stadtaev/tennisfinals/internal/migrations"
	"github.com/stadtaev/tennisfinals/internal/server"
	"github.com/stadtaev/tennisfinals/internal/tennis"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	version, err := migrations.Run(db)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "schema_version", version)

	// --- Stores ---
	store := server.NewDocStore(db)
	admin := server.NewAdminDocStore(db)

	created, err := admin.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if created {
		logger.Info("admin account created", "email", cfg.AdminEmail)
	}
	if err := server.SeedRoster(ctx, logger, store, cfg.RosterSize); err != nil {
		return fmt.Errorf("seeding roster: %w", err)
	}

	// --- Tournament ---
	ratings := server.NewRatingWorker(logger, store, cfg.RatingQueue)
	arena := server.NewArena(logger, store, ratings)
	if err := arena.Restore(ctx); err != nil {
		return fmt.Errorf("restoring tournament: %w", err)
	}

	checks := map[string]health.Checker{
		"sqlite": dbChecker{db},
	}

	// --- Archive ---
	var arch server.Archive
	if cfg.Archive.Enabled() {
		a, err := archive.New(ctx, archive.Config{
			Bucket:          cfg.Archive.Bucket,
			Prefix:          cfg.Archive.Prefix,
			Endpoint:        cfg.Archive.Endpoint,
			Region:          cfg.Archive.Region,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
		})
		if err != nil {
			return fmt.Errorf("configuring archive: %w", err)
		}
		arch = a
		checks["archive"] = a
		logger.Info("archiving completed tournaments", "bucket", cfg.Archive.Bucket, "prefix", cfg.Archive.Prefix)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Admin:   admin,
		Players: store,
		Arena:   arena,
		Broker:  server.NewBroker(),
		Archive: arch,
		Defaults: server.Defaults{
			Format:     tennis.Format(cfg.MatchFormat),
			Grid:       tennis.Grid{Start: cfg.ScheduleStart, Slot: cfg.ScheduleSlot},
			RosterSize: cfg.RosterSize,
		},
		SPADir: cfg.SPADir,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		err := srv.Shutdown(context.Background())
		// Requests finishing during shutdown may still queue outcomes.
		ratings.Close()
		return err
	})

	g.Go(func() error {
		err := ratings.Run(gctx)
		logger.Info("rating worker stopped")
		return err
	})

	return g.Wait()
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }
