package dataset

// convert.go classifies raw CSV cells.
//
// Two questions are answered for every cell:
//   - is it missing? (empty or one of the usual NA spellings)
//   - does it parse as a number? (integers, decimals, scientific notation, inf)
//
// Column kind inference builds on both: a column is numeric iff every
// present cell is a number.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// missingTokens are the cell spellings read as "no value".
var missingTokens = map[string]struct{}{
	"":        {},
	"NA":      {},
	"N/A":     {},
	"n/a":     {},
	"NaN":     {},
	"nan":     {},
	"-NaN":    {},
	"-nan":    {},
	"null":    {},
	"NULL":    {},
	"None":    {},
	"#N/A":    {},
	"#NA":     {},
	"<NA>":    {},
	"-1.#IND": {},
	"1.#QNAN": {},
}

// IsMissing reports whether s denotes an absent value.
func IsMissing(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

// ParseNumber parses s as a float. Leading and trailing whitespace is ignored.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "inf", "infinity":
		if strings.HasPrefix(s, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range literals still denote numbers; ParseFloat returns ±Inf for them.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// InferKind returns KindNumeric when every non-missing value parses as a
// number, and KindCategorical otherwise. A column without present values
// is numeric.
func InferKind(values []string) Kind {
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		if _, ok := ParseNumber(v); !ok {
			return KindCategorical
		}
	}
	return KindNumeric
}

// buildColumn converts raw values into a typed column. padded[i] marks
// values that were absent from a short row.
func buildColumn(name string, raw []string, padded []bool) Column {
	kind := InferKind(raw)
	cells := make([]Cell, len(raw))
	for i, v := range raw {
		cell := Cell{Text: v, Padded: padded[i]}
		if !padded[i] && !IsMissing(v) {
			cell.Valid = true
			if kind == KindNumeric {
				cell.Num, _ = ParseNumber(v)
			}
		}
		cells[i] = cell
	}
	return Column{Name: name, Kind: kind, Cells: cells}
}
