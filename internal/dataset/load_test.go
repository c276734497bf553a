package dataset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		wantErr error
	}{
		{
			name:    "empty file",
			content: []byte{},
			wantErr: ErrEmptyDataset,
		},
		{
			name:    "header only",
			content: []byte("a,b,c\n"),
			wantErr: ErrEmptyDataset,
		},
		{
			name:    "invalid utf-8",
			content: []byte("name,city\nbob,M\xfcnchen\n"),
			wantErr: ErrInvalidEncoding,
		},
		{
			name:    "truncated multibyte rune at EOF",
			content: []byte("name\n\xe2\x82"),
			wantErr: ErrInvalidEncoding,
		},
		{
			name:    "row longer than header",
			content: []byte("a,b\n1,2,3\n"),
			wantErr: ErrMalformedCSV,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoad_MaxBytes(t *testing.T) {
	path := writeFile(t, []byte("a,b\n"+strings.Repeat("1,2\n", 100)))
	_, err := Load(path, WithMaxBytes(64))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Load() error = %v, want ErrFileTooLarge", err)
	}
}

func TestParse_KindsAndMissing(t *testing.T) {
	data := "age,city,score,label\n" +
		"34,Paris,1.5,1\n" +
		",Berlin,NA,0\n" +
		"29,,2e3,1\n" +
		"41,Paris,-0.25,0\n"

	table, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if table.NumRows() != 4 {
		t.Errorf("NumRows() = %d, want 4", table.NumRows())
	}
	if table.NumColumns() != 4 {
		t.Errorf("NumColumns() = %d, want 4", table.NumColumns())
	}

	wantKinds := map[string]Kind{
		"age":   KindNumeric,
		"city":  KindCategorical,
		"score": KindNumeric,
		"label": KindNumeric,
	}
	for name, want := range wantKinds {
		col, ok := table.Column(name)
		if !ok {
			t.Fatalf("column %q not found", name)
		}
		if col.Kind != want {
			t.Errorf("%s kind = %v, want %v", name, col.Kind, want)
		}
	}

	age, _ := table.Column("age")
	if age.Missing() != 1 {
		t.Errorf("age missing = %d, want 1", age.Missing())
	}
	if age.Cells[1].Valid {
		t.Error("empty age cell should be absent, not zero")
	}
	city, _ := table.Column("city")
	if city.Missing() != 1 {
		t.Errorf("city missing = %d, want 1", city.Missing())
	}
	score, _ := table.Column("score")
	if got := score.Cells[2].Num; got != 2000 {
		t.Errorf("score[2] = %v, want 2000", got)
	}
}

func TestParse_SkipsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("target,x\n1,2\n")...)
	table, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := table.Names()[0]; got != "target" {
		t.Errorf("first column = %q, want %q", got, "target")
	}
}

func TestParse_MultibyteAcrossReads(t *testing.T) {
	// Enough rows to force several underlying reads through the validator.
	var b strings.Builder
	b.WriteString("city,label\n")
	for i := 0; i < 2000; i++ {
		b.WriteString("Zürich,1\nKøbenhavn,0\n")
	}
	table, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	city, _ := table.Column("city")
	if city.Cells[0].Text != "Zürich" || city.Cells[1].Text != "København" {
		t.Errorf("unexpected city values %q, %q", city.Cells[0].Text, city.Cells[1].Text)
	}
}

func TestParse_ShortRowsArePadded(t *testing.T) {
	table, err := Parse(strings.NewReader("a,b,c\n1,2\n3,4,5\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c, _ := table.Column("c")
	if c.Cells[0].Valid || !c.Cells[0].Padded {
		t.Errorf("c[0] = %+v, want padded absent cell", c.Cells[0])
	}
	if c.Kind != KindNumeric {
		t.Errorf("c kind = %v, want numeric", c.Kind)
	}
}

func TestParse_DuplicateAndBlankHeaders(t *testing.T) {
	table, err := Parse(strings.NewReader("a,a,,a\n1,2,3,4\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []string{"a", "a.1", "Unnamed: 2", "a.2"}
	got := table.Names()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecords_JSONKeepsHeaderOrder(t *testing.T) {
	table, err := Parse(strings.NewReader("z,a,m\n1,,x\n2\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got, err := json.Marshal(table.Records())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `[{"z":"1","a":"","m":"x"},{"z":"2","a":null,"m":null}]`
	if string(got) != want {
		t.Errorf("json = %s, want %s", got, want)
	}

	v, ok := table.Records()[0].Get("m")
	if !ok || v != "x" {
		t.Errorf("Get(m) = %q, %v; want x, true", v, ok)
	}
}
