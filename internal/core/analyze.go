package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/datalens/internal/dataset"
)

// Options configures a single analysis run.
type Options struct {
	Forest   ForestOptions
	Split    SplitOptions
	MaxBytes int64 // dataset size limit for AnalyzeDataset; 0 disables it
}

// DefaultOptions returns the standard analysis settings.
func DefaultOptions() Options {
	return Options{
		Forest: DefaultForestOptions(),
		Split:  DefaultSplitOptions(),
	}
}

// AnalysisResult is the outcome of one analysis run.
type AnalysisResult struct {
	TargetColumn        string             `json:"target_column" yaml:"target_column"`
	FeatureColumns      []string           `json:"feature_columns" yaml:"feature_columns"`
	NumericFeatures     []string           `json:"numeric_features" yaml:"numeric_features"`
	CategoricalFeatures []string           `json:"categorical_features" yaml:"categorical_features"`
	Summary             Summary            `json:"summary" yaml:"summary"`
	Model               ModelDescriptor    `json:"model" yaml:"model"`
	Metrics             map[string]float64 `json:"metrics" yaml:"metrics"`
	RunID               string             `json:"run_id,omitempty" yaml:"run_id,omitempty"`

	// Details kept for run history and the CLI; not part of the response body.
	Evaluation Evaluation `json:"-" yaml:"-"`
	Binarized  bool       `json:"-" yaml:"-"`
}

// AnalyzeDataset loads the CSV file at path and analyzes it.
func AnalyzeDataset(ctx context.Context, path string, opts Options) (*AnalysisResult, error) {
	t, err := dataset.Load(path, dataset.WithMaxBytes(opts.MaxBytes))
	if err != nil {
		return nil, err
	}
	return AnalyzeTable(ctx, t, opts)
}

// AnalyzeTable infers the target, trains and scores the classifier, and
// summarises the table. Training and the summary run concurrently; the first
// error from either is returned.
func AnalyzeTable(ctx context.Context, t *dataset.Table, opts Options) (*AnalysisResult, error) {
	target := InferTarget(t)
	fs, y, err := SplitFeatures(t, target)
	if err != nil {
		return nil, fmt.Errorf("split features: %w", err)
	}

	pipe, numeric, categorical, err := BuildPipeline(fs, opts.Forest)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	labels, binarized := BinarizeTarget(y)

	var (
		summary Summary
		eval    Evaluation
		g       errgroup.Group
	)
	g.Go(func() error {
		summary = Summarize(t)
		return nil
	})
	g.Go(func() error {
		var err error
		eval, err = TrainAndEvaluate(ctx, fs, labels, pipe, opts.Split)
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &AnalysisResult{
		TargetColumn:        target,
		FeatureColumns:      fs.Names(),
		NumericFeatures:     numeric,
		CategoricalFeatures: categorical,
		Summary:             summary,
		Model:               pipe.Descriptor(),
		Metrics:             map[string]float64{"accuracy": eval.Accuracy},
		Evaluation:          eval,
		Binarized:           binarized,
	}, nil
}
