// Package history persists analysis run records.
//
// Two backends implement core.RunStore: PostgresStore on a pgx pool and
// SQLiteStore on the pure-Go modernc driver. Both create their schema with
// embedded goose migrations on open.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/core"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// Open returns the store selected by cfg.URL, or nil when history is disabled.
//
//	postgres://... or postgresql://...  PostgresStore
//	sqlite://path, file:..., bare path   SQLiteStore
func Open(ctx context.Context, cfg config.HistoryConfig) (core.RunStore, error) {
	url := strings.TrimSpace(cfg.URL)
	switch {
	case url == "":
		return nil, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		store, err := OpenPostgres(ctx, url, cfg.MaxConns)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite://"))
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

// migrate applies the embedded migrations for dialect from dir.
func migrate(ctx context.Context, db *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through slog at debug level so that
// migrations never write to stdout.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

// clampLimit bounds List page sizes.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 50
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}
