package core

import (
	"fmt"

	"github.com/JonMunkholm/datalens/internal/dataset"
)

// targetPriority lists the column names tried, in order, when inferring the target.
var targetPriority = []string{"target", "label", "y", "class"}

// InferTarget returns the first column named in the priority list, or the
// last column of the table when none of them is present.
func InferTarget(t *dataset.Table) string {
	for _, name := range targetPriority {
		if t.Index(name) >= 0 {
			return name
		}
	}
	if t.NumColumns() == 0 {
		return ""
	}
	return t.Columns[t.NumColumns()-1].Name
}

// FeatureSet is a read-only view of the table without its target column.
type FeatureSet struct {
	Columns []*dataset.Column
	rows    int
}

// Names returns the feature column names in table order.
func (fs FeatureSet) Names() []string {
	names := make([]string, len(fs.Columns))
	for i, c := range fs.Columns {
		names[i] = c.Name
	}
	return names
}

// NumRows returns the number of rows.
func (fs FeatureSet) NumRows() int { return fs.rows }

// TargetVector holds the target column as class labels.
type TargetVector struct {
	Name   string
	Kind   dataset.Kind
	Labels []string
	Valid  []bool
	Values []float64 // numeric targets only
}

// Len returns the number of rows.
func (y TargetVector) Len() int { return len(y.Labels) }

// Distinct returns the present labels in first-seen order.
func (y TargetVector) Distinct() []string {
	seen := make(map[string]struct{})
	var out []string
	for i, l := range y.Labels {
		if !y.Valid[i] {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// HasMissing reports whether any label is absent.
func (y TargetVector) HasMissing() bool {
	for _, ok := range y.Valid {
		if !ok {
			return true
		}
	}
	return false
}

// SplitFeatures separates the target column from the feature columns.
func SplitFeatures(t *dataset.Table, target string) (FeatureSet, TargetVector, error) {
	idx := t.Index(target)
	if idx < 0 {
		return FeatureSet{}, TargetVector{}, fmt.Errorf("%w: %q", ErrColumnNotFound, target)
	}

	fs := FeatureSet{rows: t.NumRows()}
	for i := range t.Columns {
		if i != idx {
			fs.Columns = append(fs.Columns, &t.Columns[i])
		}
	}

	col := &t.Columns[idx]
	n := t.NumRows()
	y := TargetVector{
		Name:   col.Name,
		Kind:   col.Kind,
		Labels: make([]string, n),
		Valid:  make([]bool, n),
	}
	if col.Kind == dataset.KindNumeric {
		y.Values = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		y.Labels[i], y.Valid[i] = col.Label(i)
		if y.Values != nil && y.Valid[i] {
			y.Values[i] = col.Cells[i].Num
		}
	}
	return fs, y, nil
}
