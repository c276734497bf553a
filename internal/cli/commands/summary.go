package commands

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/dataset"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print descriptive statistics for the dataset",
		Long: `Summary prints row and column counts, missing values per column,
means and medians of numeric columns, and their pairwise correlations.
No model is trained.`,
		Example: `  datalens summary
  datalens summary --data ./iris.csv --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table|json|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormat)

	return cmd
}

func runSummary(cmd *cobra.Command, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	cfg, err := configFrom(cmd.Context())
	if err != nil {
		return err
	}

	t, err := dataset.Load(cfg.Dataset.Path, dataset.WithMaxBytes(cfg.Dataset.MaxFileSize))
	if err != nil {
		return userError(err)
	}
	s := core.Summarize(t)

	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		return renderJSON(out, s)
	case formatYAML:
		return renderYAML(out, s)
	default:
		renderSummaryTable(out, s)
		return nil
	}
}
