package dataset

import (
	"bytes"
	"encoding/json"
)

// Record is one dataset row as an ordered field-to-value mapping.
// Its JSON form is an object whose keys follow the header order.
type Record struct {
	fields []string
	values []*string
}

// Get returns the raw value for field. ok is false when the field is unknown
// or the row did not contain it.
func (r Record) Get(field string) (value string, ok bool) {
	for i, f := range r.fields {
		if f == field {
			if r.values[i] == nil {
				return "", false
			}
			return *r.values[i], true
		}
	}
	return "", false
}

// Fields returns the field names in header order.
func (r Record) Fields() []string { return r.fields }

// Map returns the record as a plain map. Absent fields map to nil.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for i, f := range r.fields {
		if r.values[i] == nil {
			m[f] = nil
		} else {
			m[f] = *r.values[i]
		}
	}
	return m
}

// MarshalJSON encodes the record as an object in header order.
// Cells missing from a short row encode as null; all others keep their raw text.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if r.values[i] == nil {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(*r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records returns every row of the table as a Record.
func (t *Table) Records() []Record {
	names := t.Names()
	out := make([]Record, t.rows)
	for i := 0; i < t.rows; i++ {
		values := make([]*string, len(t.Columns))
		for j := range t.Columns {
			cell := t.Columns[j].Cells[i]
			if cell.Padded {
				continue
			}
			text := cell.Text
			values[j] = &text
		}
		out[i] = Record{fields: names, values: values}
	}
	return out
}
