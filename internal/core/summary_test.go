package core

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestSummarize(t *testing.T) {
	tbl := parseTable(t, "x,z,c,k\n1,2,a,5\n2,4,b,5\n3,6,,5\n4,,a,5\n")
	s := Summarize(tbl)

	if s.NumRows != 4 || s.NumColumns != 4 {
		t.Errorf("shape = %dx%d, want 4x4", s.NumRows, s.NumColumns)
	}
	if !reflect.DeepEqual(s.Columns, []string{"x", "z", "c", "k"}) {
		t.Errorf("Columns = %v", s.Columns)
	}
	if s.MissingCounts["z"] != 1 || s.MissingCounts["c"] != 1 || s.MissingCounts["x"] != 0 {
		t.Errorf("MissingCounts = %v", s.MissingCounts)
	}
	if got := *s.Means["x"]; got != 2.5 {
		t.Errorf("mean x = %v, want 2.5", got)
	}
	if got := *s.Medians["z"]; got != 4 {
		t.Errorf("median z = %v, want 4", got)
	}
	if s.Means["c"] != nil || s.Medians["c"] != nil {
		t.Error("categorical column should have nil mean and median")
	}

	corr := s.Correlations
	if _, ok := corr["c"]; ok {
		t.Error("categorical column should not appear in correlations")
	}
	if r := corr["x"]["z"]; r == nil || math.Abs(*r-1) > 1e-12 {
		t.Errorf("corr(x,z) = %v, want 1", r)
	}
	if corr["x"]["z"] != corr["z"]["x"] {
		t.Error("correlation matrix should be symmetric")
	}
	if r := corr["x"]["x"]; r == nil || *r != 1 {
		t.Errorf("corr(x,x) = %v, want 1", r)
	}
	if corr["k"]["k"] != nil || corr["x"]["k"] != nil {
		t.Error("constant column correlations should be nil")
	}
}

func TestSummarize_SingleNumericColumn(t *testing.T) {
	s := Summarize(parseTable(t, "x,c\n1,a\n2,b\n"))
	if len(s.Correlations) != 0 {
		t.Errorf("Correlations = %v, want empty", s.Correlations)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var raw map[string]json.RawMessage
	_ = json.Unmarshal(b, &raw)
	if string(raw["correlations"]) != "{}" {
		t.Errorf("correlations JSON = %s, want {}", raw["correlations"])
	}
	if string(raw["means"]) != `{"c":null,"x":1.5}` {
		t.Errorf("means JSON = %s", raw["means"])
	}
}

func TestMedian(t *testing.T) {
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("median odd = %v, want 2", got)
	}
	if got := median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("median even = %v, want 2.5", got)
	}
	if !math.IsNaN(median(nil)) {
		t.Error("median of empty input should be NaN")
	}
}
