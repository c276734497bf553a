package core

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/JonMunkholm/datalens/internal/dataset"
)

// Summary holds descriptive statistics for every column of a table.
// Means and medians are nil for categorical columns and for numeric columns
// without present values.
type Summary struct {
	NumRows       int                            `json:"num_rows" yaml:"num_rows"`
	NumColumns    int                            `json:"num_columns" yaml:"num_columns"`
	Columns       []string                       `json:"columns" yaml:"columns"`
	MissingCounts map[string]int                 `json:"missing_counts" yaml:"missing_counts"`
	Means         map[string]*float64            `json:"means" yaml:"means"`
	Medians       map[string]*float64            `json:"medians" yaml:"medians"`
	Correlations  map[string]map[string]*float64 `json:"correlations" yaml:"correlations"`
}

// Summarize computes the summary of t, including the pairwise Pearson
// correlation of numeric columns when there are at least two of them.
func Summarize(t *dataset.Table) Summary {
	s := Summary{
		NumRows:       t.NumRows(),
		NumColumns:    t.NumColumns(),
		Columns:       t.Names(),
		MissingCounts: make(map[string]int, t.NumColumns()),
		Means:         make(map[string]*float64, t.NumColumns()),
		Medians:       make(map[string]*float64, t.NumColumns()),
		Correlations:  map[string]map[string]*float64{},
	}

	for i := range t.Columns {
		col := &t.Columns[i]
		s.MissingCounts[col.Name] = col.Missing()
		s.Means[col.Name] = nil
		s.Medians[col.Name] = nil

		values := col.Floats()
		if len(values) == 0 {
			continue
		}
		s.Means[col.Name] = finiteOrNil(stat.Mean(values, nil))
		s.Medians[col.Name] = finiteOrNil(median(values))
	}

	numeric := t.NumericColumns()
	if len(numeric) >= 2 {
		s.Correlations = correlationMatrix(numeric)
	}
	return s
}

// correlationMatrix computes the symmetric Pearson matrix over pairwise
// complete observations. Undefined entries are nil.
func correlationMatrix(cols []*dataset.Column) map[string]map[string]*float64 {
	out := make(map[string]map[string]*float64, len(cols))
	for _, c := range cols {
		out[c.Name] = make(map[string]*float64, len(cols))
	}

	for i, a := range cols {
		for j := i; j < len(cols); j++ {
			b := cols[j]
			var r *float64
			if i == j {
				r = selfCorrelation(a)
			} else {
				r = pairCorrelation(a, b)
			}
			out[a.Name][b.Name] = r
			out[b.Name][a.Name] = r
		}
	}
	return out
}

func selfCorrelation(c *dataset.Column) *float64 {
	values := c.Floats()
	if len(values) < 2 || !hasVariance(values) {
		return nil
	}
	one := 1.0
	return &one
}

func pairCorrelation(a, b *dataset.Column) *float64 {
	var xs, ys []float64
	for k := range a.Cells {
		if a.Cells[k].Valid && b.Cells[k].Valid {
			xs = append(xs, a.Cells[k].Num)
			ys = append(ys, b.Cells[k].Num)
		}
	}
	if len(xs) < 2 || !hasVariance(xs) || !hasVariance(ys) {
		return nil
	}
	r := stat.Correlation(xs, ys, nil)
	if !isFinite(r) {
		return nil
	}
	r = math.Max(-1, math.Min(1, r))
	return &r
}

func hasVariance(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return isFinite(stat.Variance(xs, nil))
		}
	}
	return false
}
