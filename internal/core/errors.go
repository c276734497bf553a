package core

import (
	"errors"

	"github.com/JonMunkholm/datalens/internal/dataset"
)

var (
	// ErrColumnNotFound is returned when a named column is absent from the table.
	ErrColumnNotFound = errors.New("column not found")

	// ErrEmptyFeatureSet is returned when no feature columns remain after
	// removing the target, or when every feature is empty in the training rows.
	ErrEmptyFeatureSet = errors.New("empty feature set")

	// ErrInsufficientRows is returned when the rows cannot be split into
	// non-empty training and held-out partitions.
	ErrInsufficientRows = errors.New("insufficient rows for train/test split")

	// ErrMissingTarget is returned when a class-label target has absent values.
	ErrMissingTarget = errors.New("target column has missing values")
)

// ErrorCategory groups errors by how they should be reported to clients.
type ErrorCategory int

const (
	CategoryInternal ErrorCategory = iota
	CategoryNotFound
	CategoryDecode
	CategoryEmptyInput
	CategoryBusy
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryNotFound:
		return "not_found"
	case CategoryDecode:
		return "decode_failure"
	case CategoryEmptyInput:
		return "empty_input"
	case CategoryBusy:
		return "busy"
	default:
		return "internal"
	}
}

// Classify returns the category of err. Unknown errors are CategoryInternal.
func Classify(err error) ErrorCategory {
	switch {
	case err == nil:
		return CategoryInternal
	case errors.Is(err, dataset.ErrNotFound), errors.Is(err, ErrColumnNotFound):
		return CategoryNotFound
	case errors.Is(err, dataset.ErrInvalidEncoding):
		return CategoryDecode
	case errors.Is(err, dataset.ErrEmptyDataset),
		errors.Is(err, ErrEmptyFeatureSet),
		errors.Is(err, ErrInsufficientRows):
		return CategoryEmptyInput
	case errors.Is(err, ErrTooManyAnalyses):
		return CategoryBusy
	default:
		return CategoryInternal
	}
}
