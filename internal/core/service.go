package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/dataset"
	"github.com/JonMunkholm/datalens/internal/logging"
)

// Service runs analyses against the configured dataset.
// It is safe for concurrent use; every call builds its own table and model.
type Service struct {
	datasetPath string
	opts        Options
	limiter     *AnalysisLimiter
	runs        RunStore
}

// NewService creates a Service from configuration. runs may be nil to
// disable run history.
func NewService(cfg *config.Config, runs RunStore) (*Service, error) {
	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("dataset path is not configured")
	}

	opts := DefaultOptions()
	opts.Forest.NEstimators = cfg.Analysis.NEstimators
	opts.Forest.Seed = cfg.Analysis.Seed
	opts.Split.Seed = cfg.Analysis.Seed
	opts.Split.TestRatio = cfg.Analysis.TestRatio
	opts.MaxBytes = cfg.Dataset.MaxFileSize

	return &Service{
		datasetPath: cfg.Dataset.Path,
		opts:        opts,
		limiter:     NewAnalysisLimiter(cfg.Analysis.MaxConcurrent, cfg.Analysis.MaxWaitTime),
		runs:        runs,
	}, nil
}

// DatasetPath returns the configured dataset location.
func (s *Service) DatasetPath() string { return s.datasetPath }

// HistoryEnabled reports whether runs are recorded.
func (s *Service) HistoryEnabled() bool { return s.runs != nil }

// Rows returns the raw dataset rows in file order.
func (s *Service) Rows(ctx context.Context) ([]dataset.Record, error) {
	t, err := dataset.Load(s.datasetPath, dataset.WithMaxBytes(s.opts.MaxBytes))
	if err != nil {
		logging.FromContext(ctx).Warn("dataset read failed", "path", s.datasetPath, "error", err)
		return nil, err
	}
	return t.Records(), nil
}

// Analyze runs the full analysis on the configured dataset.
func (s *Service) Analyze(ctx context.Context) (*AnalysisResult, error) {
	return s.AnalyzeFile(ctx, s.datasetPath)
}

// AnalyzeFile runs the full analysis on the CSV file at path. It waits for
// a free analysis slot first and records the run when history is enabled.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*AnalysisResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	runID := uuid.New().String()
	logger := logging.WithFields(ctx, "run_id", runID, "dataset", path)
	logger.Info("analysis started")
	start := time.Now()

	res, err := AnalyzeDataset(ctx, path, s.opts)
	if err != nil {
		logger.Warn("analysis failed",
			"category", Classify(err).String(),
			"error", err,
		)
		return nil, err
	}
	elapsed := time.Since(start)

	logger.Info("analysis completed",
		"target", res.TargetColumn,
		"features", len(res.FeatureColumns),
		"binarized", res.Binarized,
		"accuracy", res.Metrics["accuracy"],
		"duration_ms", elapsed.Milliseconds(),
	)

	if s.runs != nil {
		rec := newRunRecord(ctx, runID, path, res, elapsed)
		if err := s.runs.Record(ctx, rec); err != nil {
			logger.Error("failed to record run", "error", err)
		} else {
			res.RunID = runID
		}
	}
	return res, nil
}

// Runs returns up to limit recorded runs, newest first. It returns an empty
// list when history is disabled.
func (s *Service) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	if s.runs == nil {
		return []RunRecord{}, nil
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// LimiterStatus returns the analysis limiter state.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForAnalyses blocks until running analyses finish or ctx is done.
func (s *Service) WaitForAnalyses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
