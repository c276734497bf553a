package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/datalens/internal/logging"
)

// Evaluation is the outcome of fitting a pipeline and scoring it on held-out rows.
type Evaluation struct {
	Accuracy  float64
	TrainRows int
	TestRows  int
	Classes   []string
}

// TrainAndEvaluate splits the rows, fits pipe on the training rows only,
// predicts the held-out rows, and scores the predictions.
func TrainAndEvaluate(ctx context.Context, fs FeatureSet, y TargetVector, pipe *Pipeline, opts SplitOptions) (Evaluation, error) {
	if y.Len() != fs.NumRows() {
		return Evaluation{}, fmt.Errorf("target has %d rows, features have %d", y.Len(), fs.NumRows())
	}
	if y.HasMissing() {
		return Evaluation{}, fmt.Errorf("%w: %q", ErrMissingTarget, y.Name)
	}

	train, test, err := trainTestSplit(y.Labels, opts)
	if err != nil {
		return Evaluation{}, err
	}

	if err := pipe.Fit(ctx, train, y); err != nil {
		return Evaluation{}, err
	}

	pred, err := pipe.Predict(test)
	if err != nil {
		return Evaluation{}, fmt.Errorf("predict: %w", err)
	}

	truth := make([]string, len(test))
	for i, r := range test {
		truth[i] = y.Labels[r]
	}

	acc, err := accuracyScore(truth, pred)
	if err != nil {
		logging.FromContext(ctx).Warn("accuracy computation failed, using match fraction", "error", err)
		acc = matchFraction(truth, pred)
	}

	return Evaluation{
		Accuracy:  acc,
		TrainRows: len(train),
		TestRows:  len(test),
		Classes:   pipe.Classes(),
	}, nil
}
