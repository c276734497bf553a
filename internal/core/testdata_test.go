package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/JonMunkholm/datalens/internal/dataset"
)

// parseTable builds a table from inline CSV.
func parseTable(t *testing.T, csv string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return tbl
}

// ageCityLabel returns n rows where label is 1 exactly when age > 40.
func ageCityLabel(n int) string {
	cities := []string{"NY", "LA", "SF"}
	var b strings.Builder
	b.WriteString("age,city,label\n")
	for i := 0; i < n; i++ {
		age := 20 + (i*37)%50
		label := 0
		if age > 40 {
			label = 1
		}
		fmt.Fprintf(&b, "%d,%s,%d\n", age, cities[i%3], label)
	}
	return b.String()
}
