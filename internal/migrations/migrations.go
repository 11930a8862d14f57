package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var fs embed.FS

var (
	setup    sync.Once
	setupErr error
)

func configure() error {
	setup.Do(func() {
		goose.SetBaseFS(fs)
		goose.SetLogger(goose.NopLogger())
		setupErr = goose.SetDialect("sqlite3")
	})
	return setupErr
}

// Run applies all pending migrations against db and returns the resulting
// schema version.
func Run(db *sql.DB) (int64, error) {
	if err := configure(); err != nil {
		return 0, fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return 0, fmt.Errorf("running migrations: %w", err)
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
