package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
)

var (
	// ErrNotFound is returned when the dataset file does not exist.
	ErrNotFound = errors.New("dataset not found")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8.
	ErrInvalidEncoding = errors.New("encoding error: dataset is not valid UTF-8")

	// ErrEmptyDataset is returned when the file has no header or no data rows.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrMalformedCSV is returned when a row cannot be aligned with the header.
	ErrMalformedCSV = errors.New("invalid csv")

	// ErrFileTooLarge is returned when the file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// Option configures Load and Parse.
type Option func(*options)

type options struct {
	maxBytes int64
}

// WithMaxBytes rejects input larger than n bytes. Zero disables the limit.
func WithMaxBytes(n int64) Option {
	return func(o *options) { o.maxBytes = n }
}

// Load reads the CSV file at path into a Table.
// The file is closed before Load returns, whether parsing succeeds or not.
func Load(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Parse reads CSV data with a header row from r.
func Parse(r io.Reader, opts ...Option) (*Table, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	src := r
	if o.maxBytes > 0 {
		src = &limitedReader{r: src, max: o.maxBytes}
	}

	cr := csv.NewReader(newUTF8Validator(skipBOM(src)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, readError(err)
	}
	header = uniqueNames(header)

	raw := make([][]string, len(header))
	padded := make([][]bool, len(header))
	rows := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		if len(record) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: expected %d fields on line %d, saw %d",
				ErrMalformedCSV, len(header), line, len(record))
		}
		for j := range header {
			if j < len(record) {
				raw[j] = append(raw[j], record[j])
				padded[j] = append(padded[j], false)
			} else {
				raw[j] = append(raw[j], "")
				padded[j] = append(padded[j], true)
			}
		}
		rows++
	}

	if rows == 0 {
		return nil, ErrEmptyDataset
	}

	columns := make([]Column, len(header))
	for j, name := range header {
		columns[j] = buildColumn(name, raw[j], padded[j])
	}
	return &Table{Columns: columns, rows: rows}, nil
}

// readError keeps encoding and size errors distinguishable from parse errors.
func readError(err error) error {
	if errors.Is(err, ErrInvalidEncoding) || errors.Is(err, ErrFileTooLarge) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrMalformedCSV, err)
}

// uniqueNames fills blank header names and suffixes duplicates with ".1", ".2", ...
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for used[name] {
			suffix[base]++
			name = base + "." + strconv.Itoa(suffix[base])
		}
		used[name] = true
		out[i] = name
	}
	return out
}
