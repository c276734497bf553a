package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/JonMunkholm/datalens/internal/core"
)

// PostgresStore records runs in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url, verifies the connection and migrates the schema.
func OpenPostgres(ctx context.Context, url string, maxConns int) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// goose needs database/sql; this handle shares the pool's connections.
	db := stdlib.OpenDBFromPool(pool)
	err = migrate(ctx, db, "postgres", "migrations/postgres")
	db.Close()
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Record inserts run. A zero CreatedAt is set by the database.
func (s *PostgresStore) Record(ctx context.Context, run core.RunRecord) error {
	var created *time.Time
	if !run.CreatedAt.IsZero() {
		created = &run.CreatedAt
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO analysis_runs (
			id, dataset_path, target_column, num_rows, num_features, binarized,
			accuracy, train_rows, test_rows, duration_ms, client_ip, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13, now()))`,
		run.ID, run.DatasetPath, run.TargetColumn, run.NumRows, run.NumFeatures, run.Binarized,
		run.Accuracy, run.TrainRows, run.TestRows, run.DurationMS, run.ClientIP, run.UserAgent,
		created,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]core.RunRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, dataset_path, target_column, num_rows, num_features, binarized,
		       accuracy, train_rows, test_rows, duration_ms, client_ip, user_agent, created_at
		FROM analysis_runs
		ORDER BY created_at DESC, id
		LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.RunRecord, error) {
		var run core.RunRecord
		err := row.Scan(
			&run.ID, &run.DatasetPath, &run.TargetColumn, &run.NumRows, &run.NumFeatures, &run.Binarized,
			&run.Accuracy, &run.TrainRows, &run.TestRows, &run.DurationMS, &run.ClientIP, &run.UserAgent,
			&run.CreatedAt,
		)
		run.CreatedAt = run.CreatedAt.UTC()
		return run, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}
	if runs == nil {
		runs = []core.RunRecord{}
	}
	return runs, nil
}
