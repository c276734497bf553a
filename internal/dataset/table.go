// Package dataset loads delimited tabular files into typed, in-memory tables.
//
// A [Table] is an ordered set of equally sized [Column] values. Every column
// carries an inferred [Kind]: numeric when each present cell parses as a
// number, categorical otherwise. Missing cells are kept as explicit absent
// markers ([Cell.Valid] == false) instead of zeros or empty strings, so the
// analysis code can tell "0" and "" apart from "no value".
package dataset

import "strconv"

// Kind is the inferred type of a column.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	default:
		return "categorical"
	}
}

// Cell is a single value. Valid is false when the value is absent.
type Cell struct {
	Text  string  // raw text as read from the file
	Num   float64 // parsed value, numeric columns only
	Valid bool

	// Padded marks cells filled in for a row shorter than the header.
	Padded bool
}

// Column is a named, typed sequence of cells aligned with the table rows.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// Missing returns the number of absent cells.
func (c *Column) Missing() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.Valid {
			n++
		}
	}
	return n
}

// Floats returns the present numeric values in row order.
// It returns nil for categorical columns.
func (c *Column) Floats() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Valid {
			out = append(out, cell.Num)
		}
	}
	return out
}

// Label returns the class label representation of row i and whether it is present.
// Numeric values are normalised so that "1" and "1.0" share a label.
func (c *Column) Label(i int) (string, bool) {
	cell := c.Cells[i]
	if !cell.Valid {
		return "", false
	}
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(cell.Num, 'g', -1, 64), true
	}
	return cell.Text, true
}

// Table is an in-memory dataset. Columns are kept in header order.
type Table struct {
	Columns []Column
	rows    int
}

// NewTable builds a table from columns, which must all have the same length.
func NewTable(columns []Column) *Table {
	t := &Table{Columns: columns}
	if len(columns) > 0 {
		t.rows = len(columns[0].Cells)
	}
	return t
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.Columns) }

// Names returns the column names in header order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i := t.Index(name)
	if i < 0 {
		return nil, false
	}
	return &t.Columns[i], true
}

// NumericColumns returns the numeric columns in header order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for i := range t.Columns {
		if t.Columns[i].Kind == KindNumeric {
			out = append(out, &t.Columns[i])
		}
	}
	return out
}
