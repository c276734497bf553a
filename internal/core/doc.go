// Package core provides the analysis logic behind the datalens service.
//
// The package is independent of any transport. Web handlers, the CLI and
// tests all drive it through [Service] or the lower level [AnalyzeTable].
//
// # Architecture
//
// An analysis runs these steps on a loaded [dataset.Table]:
//
//  1. [InferTarget] picks the target column by name priority
//     ("target", "label", "y", "class") or falls back to the last column.
//  2. [SplitFeatures] separates the features from the target.
//  3. [BuildPipeline] partitions features into numeric and categorical
//     branches and attaches a random forest classifier.
//  4. [BinarizeTarget] turns a numeric target with many distinct values
//     into a 0/1 label split at the median.
//  5. [Summarize] and [TrainAndEvaluate] run concurrently.
//
// # Preprocessing
//
// Numeric features are imputed with the training median and divided by the
// population standard deviation. They are not centered. Categorical features
// are imputed with the most frequent value and one-hot encoded against a
// sorted vocabulary; values unseen during fitting encode as all zeros.
//
// # Determinism
//
// The train/test split and the forest are seeded (42 by default). Per-tree
// seeds are drawn from one source before fitting starts, so the result does
// not depend on goroutine scheduling.
//
// # Error Handling
//
// [Classify] maps an error to a category the transport layer turns into a
// status code. [MapError] maps it to a user-facing message with a support code:
//
//   - DATA001-DATA006: dataset errors (missing, encoding, empty, malformed)
//   - ANL001-ANL005: analysis errors (columns, features, rows, target)
//   - REQ001-REQ002, RATE001, HIST001: request, rate and history errors
package core
