package core

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// ModelType is the descriptor tag reported for the forest classifier.
const ModelType = "RandomForestClassifier"

// ForestOptions configures a Forest. The zero value of each field selects
// its default.
type ForestOptions struct {
	NEstimators     int   // number of trees (default 100)
	Seed            int64 // base random seed (default 42)
	MaxDepth        int   // 0 means unlimited
	MinSamplesSplit int   // default 2
	MinSamplesLeaf  int   // default 1
	MaxFeatures     int   // features examined per split; 0 means floor(sqrt(n))
	NoBootstrap     bool  // fit every tree on all rows
}

// DefaultForestOptions returns the standard ensemble settings: 100 trees, seed 42.
func DefaultForestOptions() ForestOptions {
	return ForestOptions{NEstimators: 100, Seed: 42}
}

func (o ForestOptions) withDefaults() ForestOptions {
	if o.NEstimators <= 0 {
		o.NEstimators = 100
	}
	if o.MinSamplesSplit < 2 {
		o.MinSamplesSplit = 2
	}
	if o.MinSamplesLeaf < 1 {
		o.MinSamplesLeaf = 1
	}
	return o
}

// Forest is a random forest classifier over integer-encoded classes.
// Each tree is grown on a bootstrap sample with per-split feature subsampling,
// and predictions average the trees' class probabilities.
type Forest struct {
	opts     ForestOptions
	nClasses int
	trees    []*decisionTree
}

// NewForest creates an unfitted forest.
func NewForest(opts ForestOptions) *Forest {
	return &Forest{opts: opts.withDefaults()}
}

// NEstimators returns the ensemble size.
func (f *Forest) NEstimators() int { return f.opts.NEstimators }

// Fit grows the trees on X with class indices y in [0, nClasses).
//
// Tree seeds are drawn in order from the base seed before any tree is grown,
// so the fitted forest does not depend on goroutine scheduling.
func (f *Forest) Fit(ctx context.Context, X *mat.Dense, y []int, nClasses int) error {
	rows, cols := X.Dims()
	if rows != len(y) {
		return errors.New("forest: X and y have different lengths")
	}
	if rows == 0 || nClasses == 0 {
		return errors.New("forest: no training samples")
	}

	maxFeatures := f.opts.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(cols)))
	}
	if maxFeatures < 1 {
		maxFeatures = 1
	}
	if maxFeatures > cols {
		maxFeatures = cols
	}
	params := treeParams{
		maxDepth:        f.opts.MaxDepth,
		minSamplesSplit: f.opts.MinSamplesSplit,
		minSamplesLeaf:  f.opts.MinSamplesLeaf,
		maxFeatures:     maxFeatures,
	}

	seeder := rand.New(rand.NewSource(f.opts.Seed))
	seeds := make([]int64, f.opts.NEstimators)
	for i := range seeds {
		seeds[i] = seeder.Int63()
	}

	trees := make([]*decisionTree, f.opts.NEstimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range trees {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[i]))
			sample := make([]int, rows)
			for k := range sample {
				if f.opts.NoBootstrap {
					sample[k] = k
				} else {
					sample[k] = rng.Intn(rows)
				}
			}
			tree := newDecisionTree(params, nClasses, rng)
			tree.fit(X, y, sample)
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.trees = trees
	f.nClasses = nClasses
	return nil
}

// PredictProba returns the averaged class probabilities, one row per sample.
func (f *Forest) PredictProba(X *mat.Dense) (*mat.Dense, error) {
	if len(f.trees) == 0 {
		return nil, errors.New("forest: predict before fit")
	}
	rows, _ := X.Dims()
	out := mat.NewDense(rows, f.nClasses, nil)
	for i := 0; i < rows; i++ {
		row := X.RawRowView(i)
		acc := out.RawRowView(i)
		for _, t := range f.trees {
			for k, p := range t.predictProba(row) {
				acc[k] += p
			}
		}
		for k := range acc {
			acc[k] /= float64(len(f.trees))
		}
	}
	return out, nil
}

// Predict returns the most probable class index per sample. Ties go to the
// lower class index.
func (f *Forest) Predict(X *mat.Dense) ([]int, error) {
	proba, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rows, _ := proba.Dims()
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		best := 0
		row := proba.RawRowView(i)
		for k, p := range row {
			if p > row[best] {
				best = k
			}
		}
		out[i] = best
	}
	return out, nil
}
