package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/tennis.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@tennis.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"changeme"`

	MatchFormat   string        `env:"MATCH_FORMAT" envDefault:"best-of-two-sets"`
	ScheduleStart time.Duration `env:"SCHEDULE_START" envDefault:"8h"`
	ScheduleSlot  time.Duration `env:"SCHEDULE_SLOT" envDefault:"1h"`
	RosterSize    int           `env:"ROSTER_SIZE" envDefault:"10"`
	RatingQueue   int           `env:"RATING_QUEUE" envDefault:"64"`

	Archive Archive `envPrefix:"ARCHIVE_"`
}

// Archive configures the S3-compatible bucket for finished tournaments.
// An empty Bucket disables archiving.
type Archive struct {
	Bucket          string `env:"BUCKET"`
	Prefix          string `env:"PREFIX" envDefault:"tournaments/"`
	Endpoint        string `env:"ENDPOINT"`
	Region          string `env:"REGION" envDefault:"auto"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
}

func (a Archive) Enabled() bool { return a.Bucket != "" }

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch c.MatchFormat {
	case "single-set", "best-of-two-sets":
	default:
		return fmt.Errorf("MATCH_FORMAT: unknown format %q", c.MatchFormat)
	}
	if c.RosterSize < 8 || c.RosterSize > 10 {
		return fmt.Errorf("ROSTER_SIZE: must be between 8 and 10, got %d", c.RosterSize)
	}
	if c.ScheduleSlot <= 0 {
		return fmt.Errorf("SCHEDULE_SLOT: must be positive, got %s", c.ScheduleSlot)
	}
	if c.RatingQueue < 1 {
		return fmt.Errorf("RATING_QUEUE: must be at least 1, got %d", c.RatingQueue)
	}
	if c.AdminEmail == "" || c.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must not be empty")
	}
	return nil
}
