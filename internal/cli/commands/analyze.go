package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/history"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Train and score a classifier on the dataset",
		Long: `Analyze infers the target column, trains a random forest on a
stratified 80/20 split, and reports the held-out accuracy together with
the dataset summary.

When a history store is configured the run is recorded.`,
		Example: `  # Analyze the configured dataset
  datalens analyze

  # Analyze another file and print JSON
  datalens analyze --data ./iris.csv --format json

  # Record the run in a local SQLite file
  datalens analyze --history ./runs.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table|json|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormat)

	return cmd
}

func runAnalyze(cmd *cobra.Command, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	cfg, err := configFrom(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	svc, closeStore, err := newService(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := svc.Analyze(ctx)
	if err != nil {
		return userError(err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		return renderJSON(out, res)
	case formatYAML:
		return renderYAML(out, res)
	default:
		renderAnalysisTable(out, res)
		return nil
	}
}

// newService opens the configured history store, if any, and builds the
// analysis service on top of it. The returned func closes the store.
func newService(cmd *cobra.Command, cfg *config.Config) (*core.Service, func(), error) {
	store, err := history.Open(cmd.Context(), cfg.History)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	closeStore := func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}

	svc, err := core.NewService(cfg, store)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return svc, closeStore, nil
}

// userError prefixes err with its catalogue message when it has one.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
}
