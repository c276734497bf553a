package core

import (
	"errors"
	"math"
	"testing"

	"github.com/JonMunkholm/datalens/internal/dataset"
)

func newTestPreprocessor(t *testing.T, tbl *dataset.Table) *Preprocessor {
	t.Helper()
	var num, cat []*dataset.Column
	for i := range tbl.Columns {
		c := &tbl.Columns[i]
		if c.Kind == dataset.KindNumeric {
			num = append(num, c)
		} else {
			cat = append(cat, c)
		}
	}
	return NewPreprocessor(num, cat)
}

func TestPreprocessor_Transform(t *testing.T) {
	tbl := parseTable(t, "x,city\n10,b\n20,a\n30,b\n,a\n5,\n7,c\n")
	p := newTestPreprocessor(t, tbl)
	p.Fit([]int{0, 1, 2, 3})

	if got := p.Width(); got != 3 {
		t.Fatalf("Width() = %d, want 3 (x + a,b)", got)
	}

	X, err := p.Transform([]int{0, 3, 4, 5})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	// Training values 10,20,30 with the missing row imputed to 20:
	// population std is sqrt(50). Values are scaled but not centered.
	std := math.Sqrt(50)
	want := [][]float64{
		{10 / std, 0, 1}, // b
		{20 / std, 1, 0}, // missing x -> median, a
		{5 / std, 0, 1},  // missing city -> mode b (first seen wins the a/b tie)
		{7 / std, 0, 0},  // unseen category c
	}
	for i, row := range want {
		for j, v := range row {
			if got := X.At(i, j); math.Abs(got-v) > 1e-12 {
				t.Errorf("X[%d][%d] = %v, want %v", i, j, got, v)
			}
		}
	}
}

func TestPreprocessor_ZeroVarianceKeepsScaleOne(t *testing.T) {
	tbl := parseTable(t, "x\n5\n5\n5\n")
	p := newTestPreprocessor(t, tbl)
	p.Fit([]int{0, 1, 2})

	X, err := p.Transform([]int{0})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if got := X.At(0, 0); got != 5 {
		t.Errorf("X[0][0] = %v, want 5", got)
	}
}

func TestPreprocessor_Errors(t *testing.T) {
	tbl := parseTable(t, "x,city\n,\n,\n")
	p := newTestPreprocessor(t, tbl)

	if _, err := p.Transform([]int{0}); err == nil {
		t.Error("Transform before Fit should fail")
	}

	p.Fit([]int{0, 1})
	if p.Width() != 0 {
		t.Errorf("Width() = %d, want 0 for all-missing columns", p.Width())
	}
	if _, err := p.Transform([]int{0}); !errors.Is(err, ErrEmptyFeatureSet) {
		t.Errorf("expected ErrEmptyFeatureSet, got %v", err)
	}
}

func TestMostFrequent_TieGoesToFirstSeen(t *testing.T) {
	tbl := parseTable(t, "c\nz\na\na\nz\n")
	got, ok := mostFrequent(&tbl.Columns[0], []int{0, 1, 2, 3})
	if !ok || got != "z" {
		t.Errorf("mostFrequent() = %q, %v; want z, true", got, ok)
	}
}
