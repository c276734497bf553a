package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/JonMunkholm/datalens/internal/core"
)

// sqliteTimeLayout is fixed width so created_at sorts as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore records runs in a SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for an in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection keeps :memory: databases shared and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := migrate(ctx, db, "sqlite3", "migrations/sqlite"); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Path returns the database location.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts run. A zero CreatedAt is set to the current time.
func (s *SQLiteStore) Record(ctx context.Context, run core.RunRecord) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (
			id, dataset_path, target_column, num_rows, num_features, binarized,
			accuracy, train_rows, test_rows, duration_ms, client_ip, user_agent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DatasetPath, run.TargetColumn, run.NumRows, run.NumFeatures, run.Binarized,
		run.Accuracy, run.TrainRows, run.TestRows, run.DurationMS, run.ClientIP, run.UserAgent,
		run.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]core.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dataset_path, target_column, num_rows, num_features, binarized,
		       accuracy, train_rows, test_rows, duration_ms, client_ip, user_agent, created_at
		FROM analysis_runs
		ORDER BY created_at DESC, id
		LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []core.RunRecord{}
	for rows.Next() {
		var (
			run     core.RunRecord
			created string
		)
		if err := rows.Scan(
			&run.ID, &run.DatasetPath, &run.TargetColumn, &run.NumRows, &run.NumFeatures, &run.Binarized,
			&run.Accuracy, &run.TrainRows, &run.TestRows, &run.DurationMS, &run.ClientIP, &run.UserAgent,
			&created,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CreatedAt, err = time.Parse(sqliteTimeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad created_at %q: %w", run.ID, created, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
