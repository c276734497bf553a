package core

import (
	"errors"
	"fmt"
)

// accuracyScore returns the fraction of predictions equal to the true labels.
func accuracyScore(yTrue, yPred []string) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("accuracy: %d labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, errors.New("accuracy: no samples")
	}
	return matchFraction(yTrue, yPred), nil
}

// matchFraction counts equal pairs over the overlapping prefix of both
// slices. It returns 0 when there is nothing to compare.
func matchFraction(yTrue, yPred []string) float64 {
	n := min(len(yTrue), len(yPred))
	if n == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n)
}
