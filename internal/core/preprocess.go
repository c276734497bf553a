package core

// preprocess.go turns feature columns into a dense numeric matrix.
//
// Two branches are applied side by side, each learning its statistics from
// the training rows only:
//
//   - numeric: median imputation, then division by the population standard
//     deviation (no centering; zero-variance columns keep scale 1)
//   - categorical: most-frequent imputation, then one-hot encoding where
//     categories not seen during fit encode as all zeros
//
// The output layout is the numeric block followed by the categorical
// blocks, each in feature order.

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/JonMunkholm/datalens/internal/dataset"
)

// columnTransformer learns per-column statistics from training rows and
// writes its output block for any set of rows.
type columnTransformer interface {
	fit(rows []int)
	width() int
	transform(rows []int, dst *mat.Dense, offset int)
}

// numericBranch imputes with the training median and scales by the training std.
type numericBranch struct {
	cols    []*dataset.Column
	medians []float64
	scales  []float64
	keep    []bool // false for columns with no present training values
}

func newNumericBranch(cols []*dataset.Column) *numericBranch {
	return &numericBranch{cols: cols}
}

func (b *numericBranch) fit(rows []int) {
	b.medians = make([]float64, len(b.cols))
	b.scales = make([]float64, len(b.cols))
	b.keep = make([]bool, len(b.cols))

	for j, col := range b.cols {
		present := make([]float64, 0, len(rows))
		for _, r := range rows {
			if cell := col.Cells[r]; cell.Valid {
				present = append(present, cell.Num)
			}
		}
		if len(present) == 0 {
			continue
		}
		b.keep[j] = true
		b.medians[j] = median(present)

		imputed := make([]float64, len(rows))
		for i, r := range rows {
			imputed[i] = b.value(j, r)
		}
		scale := popStdDev(imputed)
		if scale == 0 || !isFinite(scale) {
			scale = 1
		}
		b.scales[j] = scale
	}
}

func (b *numericBranch) value(j, row int) float64 {
	if cell := b.cols[j].Cells[row]; cell.Valid {
		return cell.Num
	}
	return b.medians[j]
}

func (b *numericBranch) width() int {
	w := 0
	for _, k := range b.keep {
		if k {
			w++
		}
	}
	return w
}

func (b *numericBranch) transform(rows []int, dst *mat.Dense, offset int) {
	col := offset
	for j := range b.cols {
		if !b.keep[j] {
			continue
		}
		for i, r := range rows {
			dst.Set(i, col, b.value(j, r)/b.scales[j])
		}
		col++
	}
}

// categoricalBranch imputes with the training mode and one-hot encodes.
type categoricalBranch struct {
	cols  []*dataset.Column
	modes []string
	vocab [][]string       // sorted categories per column
	index []map[string]int // category -> position within the column block
	keep  []bool
}

func newCategoricalBranch(cols []*dataset.Column) *categoricalBranch {
	return &categoricalBranch{cols: cols}
}

func (b *categoricalBranch) fit(rows []int) {
	b.modes = make([]string, len(b.cols))
	b.vocab = make([][]string, len(b.cols))
	b.index = make([]map[string]int, len(b.cols))
	b.keep = make([]bool, len(b.cols))

	for j, col := range b.cols {
		mode, ok := mostFrequent(col, rows)
		if !ok {
			continue
		}
		b.keep[j] = true
		b.modes[j] = mode

		seen := make(map[string]struct{})
		for _, r := range rows {
			seen[b.value(j, r)] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for c := range seen {
			cats = append(cats, c)
		}
		sort.Strings(cats)

		idx := make(map[string]int, len(cats))
		for k, c := range cats {
			idx[c] = k
		}
		b.vocab[j] = cats
		b.index[j] = idx
	}
}

// mostFrequent returns the most common present value among rows. Ties go to
// the value seen first.
func mostFrequent(col *dataset.Column, rows []int) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		cell := col.Cells[r]
		if !cell.Valid {
			continue
		}
		if counts[cell.Text] == 0 {
			order = append(order, cell.Text)
		}
		counts[cell.Text]++
	}
	if len(order) == 0 {
		return "", false
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}

func (b *categoricalBranch) value(j, row int) string {
	if cell := b.cols[j].Cells[row]; cell.Valid {
		return cell.Text
	}
	return b.modes[j]
}

func (b *categoricalBranch) width() int {
	w := 0
	for j, k := range b.keep {
		if k {
			w += len(b.vocab[j])
		}
	}
	return w
}

func (b *categoricalBranch) transform(rows []int, dst *mat.Dense, offset int) {
	start := offset
	for j := range b.cols {
		if !b.keep[j] {
			continue
		}
		for i, r := range rows {
			// Unknown categories leave the whole block at zero.
			if k, ok := b.index[j][b.value(j, r)]; ok {
				dst.Set(i, start+k, 1)
			}
		}
		start += len(b.vocab[j])
	}
}

// Preprocessor applies the numeric and categorical branches side by side.
type Preprocessor struct {
	branches []columnTransformer
	fitted   bool
}

// NewPreprocessor builds a preprocessor for the given feature partition.
func NewPreprocessor(numeric, categorical []*dataset.Column) *Preprocessor {
	return &Preprocessor{
		branches: []columnTransformer{
			newNumericBranch(numeric),
			newCategoricalBranch(categorical),
		},
	}
}

// Fit learns imputation, scaling, and encoding statistics from rows.
func (p *Preprocessor) Fit(rows []int) {
	for _, b := range p.branches {
		b.fit(rows)
	}
	p.fitted = true
}

// Width returns the number of output columns. Valid after Fit.
func (p *Preprocessor) Width() int {
	w := 0
	for _, b := range p.branches {
		w += b.width()
	}
	return w
}

// Transform builds the feature matrix for rows using the fitted statistics.
func (p *Preprocessor) Transform(rows []int) (*mat.Dense, error) {
	if !p.fitted {
		return nil, fmt.Errorf("preprocessor: transform before fit")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("preprocessor: no rows to transform")
	}
	w := p.Width()
	if w == 0 {
		return nil, fmt.Errorf("%w: every feature column is empty in the training rows", ErrEmptyFeatureSet)
	}

	dst := mat.NewDense(len(rows), w, nil)
	offset := 0
	for _, b := range p.branches {
		b.transform(rows, dst, offset)
		offset += b.width()
	}
	return dst, nil
}
