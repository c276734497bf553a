package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/JonMunkholm/datalens/internal/dataset"
)

// ModelDescriptor identifies the classifier in an analysis result.
type ModelDescriptor struct {
	Type        string `json:"type" yaml:"type"`
	NEstimators int    `json:"n_estimators" yaml:"n_estimators"`
}

// Pipeline chains the preprocessor and the forest. It is fitted on training
// rows and applied to other rows without re-fitting.
type Pipeline struct {
	pre     *Preprocessor
	forest  *Forest
	classes []string
}

// BuildPipeline partitions the features by kind and returns an unfitted
// pipeline along with the numeric and categorical feature names.
func BuildPipeline(fs FeatureSet, opts ForestOptions) (*Pipeline, []string, []string, error) {
	if len(fs.Columns) == 0 {
		return nil, nil, nil, ErrEmptyFeatureSet
	}

	var numCols, catCols []*dataset.Column
	numeric := []string{}
	categorical := []string{}
	for _, c := range fs.Columns {
		if c.Kind == dataset.KindNumeric {
			numCols = append(numCols, c)
			numeric = append(numeric, c.Name)
		} else {
			catCols = append(catCols, c)
			categorical = append(categorical, c.Name)
		}
	}

	p := &Pipeline{
		pre:    NewPreprocessor(numCols, catCols),
		forest: NewForest(opts),
	}
	return p, numeric, categorical, nil
}

// Descriptor returns the model descriptor.
func (p *Pipeline) Descriptor() ModelDescriptor {
	return ModelDescriptor{Type: ModelType, NEstimators: p.forest.NEstimators()}
}

// Classes returns the fitted class labels in index order.
func (p *Pipeline) Classes() []string { return p.classes }

// Fit learns preprocessing statistics and the forest from the given rows only.
func (p *Pipeline) Fit(ctx context.Context, rows []int, y TargetVector) error {
	labels := make([]string, len(rows))
	for i, r := range rows {
		if !y.Valid[r] {
			return fmt.Errorf("%w: %q row %d", ErrMissingTarget, y.Name, r+1)
		}
		labels[i] = y.Labels[r]
	}

	p.classes = classOrder(labels, y.Kind == dataset.KindNumeric)
	index := make(map[string]int, len(p.classes))
	for k, c := range p.classes {
		index[c] = k
	}
	encoded := make([]int, len(labels))
	for i, l := range labels {
		encoded[i] = index[l]
	}

	p.pre.Fit(rows)
	X, err := p.pre.Transform(rows)
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}
	if err := p.forest.Fit(ctx, X, encoded, len(p.classes)); err != nil {
		return fmt.Errorf("fit forest: %w", err)
	}
	return nil
}

// Predict returns class labels for rows.
func (p *Pipeline) Predict(rows []int) ([]string, error) {
	if p.classes == nil {
		return nil, errors.New("pipeline: predict before fit")
	}
	X, err := p.pre.Transform(rows)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	idx, err := p.forest.Predict(X)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(idx))
	for i, k := range idx {
		out[i] = p.classes[k]
	}
	return out, nil
}

// classOrder returns the distinct labels sorted numerically for numeric
// targets and lexicographically otherwise.
func classOrder(labels []string, numeric bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	if numeric {
		sort.Slice(out, func(a, b int) bool {
			x, _ := strconv.ParseFloat(out[a], 64)
			y, _ := strconv.ParseFloat(out[b], 64)
			return x < y
		})
	} else {
		sort.Strings(out)
	}
	return out
}
