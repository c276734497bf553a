package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/testutil"
)

func ageCityCSV(n int) string {
	var b strings.Builder
	b.WriteString("age,city,label\n")
	for i := 0; i < n; i++ {
		age := 20 + (i*37)%50
		label := 0
		if age > 40 {
			label = 1
		}
		fmt.Fprintf(&b, "%d,%s,%d\n", age, []string{"NY", "LA", "SF"}[i%3], label)
	}
	return b.String()
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	testutil.UseTestLogger(t)
	t.Setenv("HISTORY_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ANALYSIS_N_ESTIMATORS", "20")

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestSummary_Table(t *testing.T) {
	path := testutil.WriteCSV(t, "data.csv", "x,y,city\n1,2,a\n2,4,b\n3,,a\n")

	out, err := execute(t, "summary", "--data", path)
	require.NoError(t, err)

	for _, want := range []string{"3 rows, 3 columns", "city", "Correlations", "1.0000"} {
		assert.Contains(t, out, want)
	}
}

func TestSummary_JSON(t *testing.T) {
	path := testutil.WriteCSV(t, "data.csv", "x,city\n1,a\n3,b\n")

	out, err := execute(t, "summary", "--data", path, "--format", "json")
	require.NoError(t, err)

	var s core.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 2, s.NumRows)
	assert.Equal(t, []string{"x", "city"}, s.Columns)
	require.NotNil(t, s.Means["x"])
	assert.InDelta(t, 2.0, *s.Means["x"], 1e-9)
	assert.Nil(t, s.Means["city"])
}

func TestSummary_YAML(t *testing.T) {
	path := testutil.WriteCSV(t, "data.csv", "x,city\n1,a\n3,b\n")

	out, err := execute(t, "summary", "--data", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "num_rows: 2")
	assert.Contains(t, out, "missing_counts:")
}

func TestAnalyze_JSON(t *testing.T) {
	path := testutil.WriteCSV(t, "data.csv", ageCityCSV(100))

	out, err := execute(t, "analyze", "--data", path, "--format", "json")
	require.NoError(t, err)

	var res core.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "label", res.TargetColumn)
	assert.Equal(t, []string{"age"}, res.NumericFeatures)
	assert.Equal(t, []string{"city"}, res.CategoricalFeatures)
	assert.Equal(t, 20, res.Model.NEstimators)
	assert.Empty(t, res.RunID)
}

func TestAnalyze_Table(t *testing.T) {
	path := testutil.WriteCSV(t, "data.csv", ageCityCSV(50))

	out, err := execute(t, "analyze", "--data", path)
	require.NoError(t, err)
	for _, want := range []string{"Target", "label", "RandomForestClassifier", "40 / 10", "Accuracy"} {
		assert.Contains(t, out, want)
	}
}

func TestAnalyze_RecordsRun(t *testing.T) {
	path := testutil.WriteCSV(t, "data.csv", ageCityCSV(50))
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "analyze", "--data", path, "--history", db, "--format", "json")
	require.NoError(t, err)

	var res core.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotEmpty(t, res.RunID)

	out, err = execute(t, "runs", "--history", db, "--format", "json")
	require.NoError(t, err)

	var runs []core.RunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)
	assert.Equal(t, path, runs[0].DatasetPath)
	assert.Equal(t, 40, runs[0].TrainRows)

	out, err = execute(t, "runs", "--history", db)
	require.NoError(t, err)
	assert.Contains(t, out, res.RunID)
	assert.Contains(t, out, "(1 runs)")
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	good := testutil.WriteCSV(t, "data.csv", ageCityCSV(10))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing dataset",
			args:    []string{"analyze", "--data", filepath.Join(dir, "nope.csv")},
			wantErr: "DATA001",
		},
		{
			name:    "header only",
			args:    []string{"summary", "--data", testutil.WriteCSV(t, "empty.csv", "a,b\n")},
			wantErr: "DATA003",
		},
		{
			name:    "unknown format",
			args:    []string{"summary", "--data", good, "--format", "xml"},
			wantErr: "unknown format",
		},
		{
			name:    "runs without history",
			args:    []string{"runs"},
			wantErr: "run history is not configured",
		},
		{
			name:    "invalid log level",
			args:    []string{"summary", "--data", good, "--log-level", "loud"},
			wantErr: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
