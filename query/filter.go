package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/querylens/querylens/dataset"
)

// filterOps is ordered longest-match first so ">=" is never mis-split into
// ">" plus a dangling "=".
var filterOps = []string{"==", "!=", ">=", "<=", "=", ">", "<"}

type filterExpr struct {
	column string
	op     string
	value  string
}

// parseFilterExpr splits "column OP value" into its parts. Returns false for
// expressions that do not contain a recognized operator.
func parseFilterExpr(expr string) (filterExpr, bool) {
	for _, op := range filterOps {
		idx := strings.Index(expr, op)
		if idx <= 0 {
			continue
		}
		column := strings.TrimSpace(expr[:idx])
		value := strings.TrimSpace(expr[idx+len(op):])
		// A column containing operator characters means the split point
		// was wrong (e.g. ">=40" found via the bare "="); reject it.
		if column == "" || value == "" || strings.ContainsAny(column, "<>=!") {
			return filterExpr{}, false
		}
		if op == "=" {
			op = "=="
		}
		return filterExpr{column: column, op: op, value: value}, true
	}
	return filterExpr{}, false
}

// applyFilters narrows the dataset row by row, one filter at a time. A filter
// that cannot be parsed or references an absent column is skipped rather than
// failing the query. The returned dataset shares row maps with the input.
func applyFilters(ds *dataset.Dataset, filters []string) *dataset.Dataset {
	out := ds
	for _, raw := range filters {
		f, ok := parseFilterExpr(raw)
		if !ok {
			continue
		}
		switch {
		case out.HasColumn(f.column):
			out = filterRows(out, func(row map[string]interface{}) bool {
				return compareCell(row[f.column], f.op, f.value)
			})
		case strings.EqualFold(f.column, "year"):
			// A year filter with no literal year column retargets to the
			// detected time column, matching on calendar year.
			timeCol := detectTimeColumn(out.Columns)
			if timeCol == "" || f.op != "==" {
				continue
			}
			want, err := strconv.Atoi(f.value)
			if err != nil {
				continue
			}
			out = filterRows(out, func(row map[string]interface{}) bool {
				y, ok := yearOf(row[timeCol])
				return ok && y == want
			})
		}
	}
	return out
}

func filterRows(ds *dataset.Dataset, keep func(map[string]interface{}) bool) *dataset.Dataset {
	out := dataset.New(ds.Columns)
	for _, row := range ds.Rows {
		if keep(row) {
			out.AppendRow(row)
		}
	}
	return out
}

// compareCell evaluates one cell against a filter operand. Both sides are
// coerced to float when possible; otherwise equality compares trimmed
// strings case-insensitively and ordering operators fail the row. The
// case folding is deliberate: filter values originate from lowercased
// prompts, so "region==north" must still match a cell holding "North".
func compareCell(cell interface{}, op, value string) bool {
	if cell == nil {
		return false
	}
	lf, lok := dataset.ToFloat64(cell)
	rf, rok := dataset.ToFloat64(value)
	if lok && rok {
		switch op {
		case "==":
			return lf == rf
		case "!=":
			return lf != rf
		case ">":
			return lf > rf
		case ">=":
			return lf >= rf
		case "<":
			return lf < rf
		case "<=":
			return lf <= rf
		}
		return false
	}

	s, ok := dataset.ToString(cell)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	switch op {
	case "==":
		return strings.EqualFold(s, value)
	case "!=":
		return !strings.EqualFold(s, value)
	}
	return false
}

// dateLayouts are tried in order when coercing a cell to a date.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"2006-01",
	"Jan 2006",
	"January 2006",
}

var yearToken = regexp.MustCompile(`\b(20\d\d)\b`)

// parseDate coerces a cell to a time, trying the known layouts.
func parseDate(cell interface{}) (time.Time, bool) {
	switch v := cell.(type) {
	case time.Time:
		return v, true
	}
	s, ok := dataset.ToString(cell)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// yearOf extracts the calendar year from a cell, falling back to a bare
// 20xx token inside the value when no layout parses.
func yearOf(cell interface{}) (int, bool) {
	if t, ok := parseDate(cell); ok {
		return t.Year(), true
	}
	s, ok := dataset.ToString(cell)
	if !ok {
		return 0, false
	}
	if m := yearToken.FindString(s); m != "" {
		y, err := strconv.Atoi(m)
		return y, err == nil
	}
	return 0, false
}
