package core

import (
	"context"
	"time"
)

// RunRecord describes one completed analysis. Trained models are not stored.
type RunRecord struct {
	ID           string    `json:"id" yaml:"id"`
	DatasetPath  string    `json:"dataset_path" yaml:"dataset_path"`
	TargetColumn string    `json:"target_column" yaml:"target_column"`
	NumRows      int       `json:"num_rows" yaml:"num_rows"`
	NumFeatures  int       `json:"num_features" yaml:"num_features"`
	Binarized    bool      `json:"binarized" yaml:"binarized"`
	Accuracy     float64   `json:"accuracy" yaml:"accuracy"`
	TrainRows    int       `json:"train_rows" yaml:"train_rows"`
	TestRows     int       `json:"test_rows" yaml:"test_rows"`
	DurationMS   int64     `json:"duration_ms" yaml:"duration_ms"`
	ClientIP     string    `json:"client_ip,omitempty" yaml:"client_ip,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// RunStore persists run records.
type RunStore interface {
	Record(ctx context.Context, run RunRecord) error
	List(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}

// newRunRecord builds the history entry for a finished analysis.
func newRunRecord(ctx context.Context, id, path string, res *AnalysisResult, elapsed time.Duration) RunRecord {
	return RunRecord{
		ID:           id,
		DatasetPath:  path,
		TargetColumn: res.TargetColumn,
		NumRows:      res.Summary.NumRows,
		NumFeatures:  len(res.FeatureColumns),
		Binarized:    res.Binarized,
		Accuracy:     res.Metrics["accuracy"],
		TrainRows:    res.Evaluation.TrainRows,
		TestRows:     res.Evaluation.TestRows,
		DurationMS:   elapsed.Milliseconds(),
		ClientIP:     ClientIPFromContext(ctx),
		UserAgent:    UserAgentFromContext(ctx),
		CreatedAt:    time.Now().UTC(),
	}
}
