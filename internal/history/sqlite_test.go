package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/core"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(id string, at time.Time) core.RunRecord {
	return core.RunRecord{
		ID:           id,
		DatasetPath:  "ml/dataset.csv",
		TargetColumn: "label",
		NumRows:      100,
		NumFeatures:  2,
		Binarized:    true,
		Accuracy:     0.95,
		TrainRows:    80,
		TestRows:     20,
		DurationMS:   42,
		ClientIP:     "10.0.0.1",
		UserAgent:    "curl/8.0",
		CreatedAt:    at,
	}
}

func TestSQLiteStore_RecordAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, sampleRun("run-a", base)))
	require.NoError(t, store.Record(ctx, sampleRun("run-b", base.Add(1500*time.Millisecond))))
	require.NoError(t, store.Record(ctx, sampleRun("run-c", base.Add(time.Second))))

	runs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, []string{"run-b", "run-c", "run-a"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	got := runs[2]
	assert.True(t, got.CreatedAt.Equal(base), "created_at = %v, want %v", got.CreatedAt, base)
	got.CreatedAt = base
	assert.Equal(t, sampleRun("run-a", base), got)

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStore_EmptyList(t *testing.T) {
	store := setupTestStore(t)

	runs, err := store.List(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestSQLiteStore_ReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, sampleRun("run-a", time.Now())))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, config.HistoryConfig{})
	require.NoError(t, err)
	assert.Nil(t, store, "empty URL disables history")

	path := filepath.Join(t.TempDir(), "runs.db")
	store, err = Open(ctx, config.HistoryConfig{URL: "sqlite://" + path})
	require.NoError(t, err)
	defer store.Close()

	sqlite, ok := store.(*SQLiteStore)
	require.True(t, ok, "sqlite:// should select SQLiteStore")
	assert.Equal(t, path, sqlite.Path())
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, clampLimit(0))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, 1000, clampLimit(5000))
}
