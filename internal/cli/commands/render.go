package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/datalens/internal/core"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func completeFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{formatTable, formatJSON, formatYAML}, cobra.ShellCompDirectiveNoFileComp
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

// renderSummaryTable prints one row per column followed by the correlation
// matrix when there is one.
func renderSummaryTable(w io.Writer, s core.Summary) {
	_, _ = fmt.Fprintf(w, "%d rows, %d columns\n", s.NumRows, s.NumColumns)

	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Missing", "Mean", "Median"})
	for _, name := range s.Columns {
		t.AppendRow(table.Row{name, s.MissingCounts[name], formatFloat(s.Means[name]), formatFloat(s.Medians[name])})
	}
	t.Render()

	if len(s.Correlations) == 0 {
		return
	}

	names := make([]string, 0, len(s.Correlations))
	for name := range s.Correlations {
		names = append(names, name)
	}
	// Keep the table in column order.
	order := make(map[string]int, len(s.Columns))
	for i, name := range s.Columns {
		order[name] = i
	}
	sort.Slice(names, func(i, j int) bool { return order[names[i]] < order[names[j]] })

	_, _ = fmt.Fprintln(w, "Correlations")
	ct := newTable(w)
	header := table.Row{""}
	for _, name := range names {
		header = append(header, name)
	}
	ct.AppendHeader(header)
	for _, a := range names {
		row := table.Row{a}
		for _, b := range names {
			row = append(row, formatFloat(s.Correlations[a][b]))
		}
		ct.AppendRow(row)
	}
	ct.Render()
}

func renderAnalysisTable(w io.Writer, res *core.AnalysisResult) {
	t := newTable(w)
	t.AppendRow(table.Row{"Target", res.TargetColumn})
	if res.Binarized {
		t.AppendRow(table.Row{"Target binarized", "yes (above median = 1)"})
	}
	t.AppendRow(table.Row{"Numeric features", len(res.NumericFeatures)})
	t.AppendRow(table.Row{"Categorical features", len(res.CategoricalFeatures)})
	t.AppendRow(table.Row{"Model", fmt.Sprintf("%s (%d trees)", res.Model.Type, res.Model.NEstimators)})
	t.AppendRow(table.Row{"Train / test rows", fmt.Sprintf("%d / %d", res.Evaluation.TrainRows, res.Evaluation.TestRows)})
	t.AppendRow(table.Row{"Accuracy", strconv.FormatFloat(res.Metrics["accuracy"], 'f', 4, 64)})
	if res.RunID != "" {
		t.AppendRow(table.Row{"Run ID", res.RunID})
	}
	t.Render()
}

func renderRunsTable(w io.Writer, runs []core.RunRecord) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "(0 runs)")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Created", "Dataset", "Target", "Rows", "Accuracy", "Duration"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.DatasetPath,
			r.TargetColumn,
			r.NumRows,
			strconv.FormatFloat(r.Accuracy, 'f', 4, 64),
			fmt.Sprintf("%dms", r.DurationMS),
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d runs)\n", len(runs))
}
