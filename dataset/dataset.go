// Package dataset provides an ordered, column-named tabular data abstraction
// used throughout querylens.
//
// A Dataset keeps an explicit column order alongside rows stored as maps for
// flexible access. Column kinds (numeric vs categorical) are inferred from
// values on demand and never cached, so a dataset whose values change between
// calls is always classified against its current contents.
//
// Example usage:
//
//	ds, err := dataset.Load("orders.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kind := ds.Kind("revenue") // dataset.KindNumeric
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a column's value semantics.
type Kind int

const (
	// KindNumeric means every non-missing value coerces to float64.
	KindNumeric Kind = iota
	// KindCategorical covers everything else, including all-missing columns.
	KindCategorical
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "categorical"
}

// Dataset is an ordered collection of named columns over rows.
//
// Rows are maps keyed by column name; a missing value is either an absent key
// or a nil entry. Columns preserves the original column order, which map
// iteration would otherwise lose.
type Dataset struct {
	Columns []string
	Rows    []map[string]interface{}
}

// New creates an empty dataset with the given column order.
func New(columns []string) *Dataset {
	return &Dataset{Columns: append([]string(nil), columns...)}
}

// AppendRow adds a row. The map is stored as given, not copied.
func (d *Dataset) AppendRow(row map[string]interface{}) {
	d.Rows = append(d.Rows, row)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the dataset contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Kind infers the column's kind from its current values: numeric if every
// non-missing value coerces to float64, categorical otherwise. An unknown or
// all-missing column is categorical.
func (d *Dataset) Kind(column string) Kind {
	seen := false
	for _, row := range d.Rows {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}
		if _, numeric := ToFloat64(v); !numeric {
			return KindCategorical
		}
		seen = true
	}
	if !seen {
		return KindCategorical
	}
	return KindNumeric
}

// Head returns a new dataset holding at most n leading rows. The row maps are
// shared with the receiver; callers must not mutate them.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	out := New(d.Columns)
	out.Rows = append(out.Rows, d.Rows[:n]...)
	return out
}

// ColumnSummary describes one column for schema inspection.
type ColumnSummary struct {
	Name     string
	Kind     Kind
	NonNull  int
	Distinct int
}

// Describe computes a per-column summary in column order.
func (d *Dataset) Describe() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(d.Columns))
	for _, col := range d.Columns {
		distinct := make(map[string]bool)
		nonNull := 0
		for _, row := range d.Rows {
			v, ok := row[col]
			if !ok || v == nil {
				continue
			}
			nonNull++
			s, _ := ToString(v)
			distinct[s] = true
		}
		out = append(out, ColumnSummary{
			Name:     col,
			Kind:     d.Kind(col),
			NonNull:  nonNull,
			Distinct: len(distinct),
		})
	}
	return out
}

// ToFloat64 converts a scalar value to float64 if possible. Strings are
// parsed after trimming spaces and thousands commas, so "1,234.5" coerces.
func ToFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToString converts a scalar value to its string form.
func ToString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	case fmt.Stringer:
		return val.String(), true
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", val), true
	}
}
