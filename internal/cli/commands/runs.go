package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errHistoryDisabled is returned by runs when no store is configured.
var errHistoryDisabled = errors.New("run history is not configured (set HISTORY_URL or pass --history)")

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded analysis runs",
		Example: `  datalens runs --history ./runs.db
  datalens runs --limit 5 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, format, limit)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table|json|yaml)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of runs (default: HISTORY_LIST_LIMIT)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormat)

	return cmd
}

func runRuns(cmd *cobra.Command, format string, limit int) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}
	cfg, err := configFrom(cmd.Context())
	if err != nil {
		return err
	}
	if !cfg.History.Enabled() {
		return errHistoryDisabled
	}
	if limit == 0 {
		limit = cfg.History.ListLimit
	}

	svc, closeStore, err := newService(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	runs, err := svc.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		return renderJSON(out, runs)
	case formatYAML:
		return renderYAML(out, runs)
	default:
		renderRunsTable(out, runs)
		return nil
	}
}
