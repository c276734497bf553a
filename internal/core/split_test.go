package core

import (
	"errors"
	"reflect"
	"testing"
)

func repeatLabels(counts map[string]int, order ...string) []string {
	var out []string
	for _, l := range order {
		for i := 0; i < counts[l]; i++ {
			out = append(out, l)
		}
	}
	return out
}

func countLabels(labels []string, idx []int) map[string]int {
	out := make(map[string]int)
	for _, i := range idx {
		out[labels[i]]++
	}
	return out
}

func TestTrainTestSplit_Stratified(t *testing.T) {
	labels := repeatLabels(map[string]int{"a": 80, "b": 20}, "a", "b")

	train, test, err := trainTestSplit(labels, DefaultSplitOptions())
	if err != nil {
		t.Fatalf("trainTestSplit failed: %v", err)
	}
	if len(train) != 80 || len(test) != 20 {
		t.Fatalf("sizes = %d/%d, want 80/20", len(train), len(test))
	}
	if got := countLabels(labels, test); got["a"] != 16 || got["b"] != 4 {
		t.Errorf("test class counts = %v, want a:16 b:4", got)
	}

	seen := make(map[int]bool)
	for _, i := range append(append([]int{}, train...), test...) {
		if seen[i] {
			t.Fatalf("row %d appears twice", i)
		}
		seen[i] = true
	}
	if len(seen) != 100 {
		t.Errorf("split covers %d rows, want 100", len(seen))
	}
}

func TestTrainTestSplit_Deterministic(t *testing.T) {
	labels := repeatLabels(map[string]int{"x": 13, "y": 7, "z": 5}, "x", "y", "z")
	train1, test1, _ := trainTestSplit(labels, DefaultSplitOptions())
	train2, test2, _ := trainTestSplit(labels, DefaultSplitOptions())
	if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
		t.Error("same seed produced different splits")
	}

	_, test3, _ := trainTestSplit(labels, SplitOptions{TestRatio: 0.2, Seed: 1})
	if len(test3) != len(test1) {
		t.Errorf("test size changed with seed: %d vs %d", len(test3), len(test1))
	}
}

func TestTrainTestSplit_SingletonClassStaysInTraining(t *testing.T) {
	labels := repeatLabels(map[string]int{"a": 9, "b": 1}, "a", "b")
	train, test, err := trainTestSplit(labels, DefaultSplitOptions())
	if err != nil {
		t.Fatalf("trainTestSplit failed: %v", err)
	}
	if len(test) != 2 {
		t.Errorf("test size = %d, want 2", len(test))
	}
	if countLabels(labels, train)["b"] != 1 {
		t.Error("single-member class should stay in training")
	}
}

func TestTrainTestSplit_SingleClass(t *testing.T) {
	labels := repeatLabels(map[string]int{"a": 10}, "a")
	train, test, err := trainTestSplit(labels, DefaultSplitOptions())
	if err != nil {
		t.Fatalf("trainTestSplit failed: %v", err)
	}
	if len(train) != 8 || len(test) != 2 {
		t.Errorf("sizes = %d/%d, want 8/2", len(train), len(test))
	}
}

func TestTrainTestSplit_InsufficientRows(t *testing.T) {
	for _, labels := range [][]string{nil, {"a"}} {
		if _, _, err := trainTestSplit(labels, DefaultSplitOptions()); !errors.Is(err, ErrInsufficientRows) {
			t.Errorf("labels %v: expected ErrInsufficientRows, got %v", labels, err)
		}
	}
}

func TestAccuracyScore(t *testing.T) {
	acc, err := accuracyScore([]string{"1", "0", "1", "1"}, []string{"1", "1", "1", "0"})
	if err != nil || acc != 0.5 {
		t.Errorf("accuracyScore() = %v, %v; want 0.5, nil", acc, err)
	}

	if _, err := accuracyScore([]string{"1"}, nil); err == nil {
		t.Error("length mismatch should fail")
	}
	if _, err := accuracyScore(nil, nil); err == nil {
		t.Error("empty input should fail")
	}

	if got := matchFraction([]string{"a", "b", "c"}, []string{"a", "x"}); got != 0.5 {
		t.Errorf("matchFraction() = %v, want 0.5", got)
	}
	if got := matchFraction(nil, nil); got != 0 {
		t.Errorf("matchFraction(nil, nil) = %v, want 0", got)
	}
}
