package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestInferTarget(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"exact target", "a,target,b\n1,2,3\n", "target"},
		{"label over y", "y,label,b\n1,2,3\n", "label"},
		{"y over class", "class,y,b\n1,2,3\n", "y"},
		{"class only", "class,a,b\n1,2,3\n", "class"},
		{"fallback to last", "a,b,c\n1,2,3\n", "c"},
		{"case sensitive", "Target,b\n1,2\n", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferTarget(parseTable(t, tt.csv)); got != tt.want {
				t.Errorf("InferTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitFeatures(t *testing.T) {
	tbl := parseTable(t, "age,city,label\n30,NY,1\n,LA,0\n45,,1\n")

	fs, y, err := SplitFeatures(tbl, "label")
	if err != nil {
		t.Fatalf("SplitFeatures failed: %v", err)
	}
	if got := fs.Names(); !reflect.DeepEqual(got, []string{"age", "city"}) {
		t.Errorf("feature names = %v, want [age city]", got)
	}
	if fs.NumRows() != 3 || y.Len() != 3 {
		t.Errorf("rows = %d/%d, want 3", fs.NumRows(), y.Len())
	}
	if !reflect.DeepEqual(y.Labels, []string{"1", "0", "1"}) {
		t.Errorf("labels = %v", y.Labels)
	}
	if got := y.Distinct(); !reflect.DeepEqual(got, []string{"1", "0"}) {
		t.Errorf("Distinct() = %v, want first-seen order [1 0]", got)
	}
	if y.HasMissing() {
		t.Error("HasMissing() = true, want false")
	}
	// Feature columns keep their absent markers.
	if fs.Columns[0].Cells[1].Valid {
		t.Error("missing age should stay absent")
	}
}

func TestSplitFeatures_ColumnNotFound(t *testing.T) {
	tbl := parseTable(t, "a,b\n1,2\n")
	_, _, err := SplitFeatures(tbl, "label")
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestBinarizeTarget(t *testing.T) {
	t.Run("many distinct values split at median", func(t *testing.T) {
		tbl := parseTable(t, "x,y\n1,1\n1,2\n1,3\n1,4\n1,5\n1,6\n1,7\n1,8\n1,9\n1,10\n1,11\n1,\n")
		_, y, _ := SplitFeatures(tbl, "y")

		out, ok := BinarizeTarget(y)
		if !ok {
			t.Fatal("expected binarization with 11 distinct values")
		}
		// Median of 1..11 is 6.
		want := []string{"0", "0", "0", "0", "0", "0", "1", "1", "1", "1", "1", "0"}
		if !reflect.DeepEqual(out.Labels, want) {
			t.Errorf("labels = %v, want %v", out.Labels, want)
		}
		if out.HasMissing() {
			t.Error("binarized target should have no missing labels")
		}
		if !y.HasMissing() {
			t.Error("input target must not be modified")
		}
	})

	t.Run("ten distinct values kept", func(t *testing.T) {
		tbl := parseTable(t, "x,y\n1,1\n1,2\n1,3\n1,4\n1,5\n1,6\n1,7\n1,8\n1,9\n1,10\n")
		_, y, _ := SplitFeatures(tbl, "y")
		if _, ok := BinarizeTarget(y); ok {
			t.Error("10 distinct values should not be binarized")
		}
	})

	t.Run("categorical kept", func(t *testing.T) {
		tbl := parseTable(t, "x,y\n1,a\n1,b\n")
		_, y, _ := SplitFeatures(tbl, "y")
		if _, ok := BinarizeTarget(y); ok {
			t.Error("categorical target should not be binarized")
		}
	})
}
