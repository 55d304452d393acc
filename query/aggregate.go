package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/querylens/querylens/dataset"
)

// group holds the rows sharing one combination of dimension values.
// Encounter order of groups is preserved so ties sort stably.
type group struct {
	values map[string]interface{}
	rows   []map[string]interface{}
}

// groupRows hash-groups rows by the dimension columns, keeping first-seen
// order. Rows missing a dimension value group under nil.
func groupRows(rows []map[string]interface{}, dims []string) []*group {
	index := make(map[string]*group)
	var ordered []*group
	for _, row := range rows {
		key, values := groupKey(row, dims)
		g, exists := index[key]
		if !exists {
			g = &group{values: values}
			index[key] = g
			ordered = append(ordered, g)
		}
		g.rows = append(g.rows, row)
	}
	return ordered
}

// groupKey builds a collision-safe hash key from the dimension values.
func groupKey(row map[string]interface{}, dims []string) (string, map[string]interface{}) {
	var keyBuilder strings.Builder
	values := make(map[string]interface{}, len(dims))
	for i, col := range dims {
		if i > 0 {
			keyBuilder.WriteString("\x00||\x00")
		}
		keyBuilder.WriteString(col)
		keyBuilder.WriteString("\x00:\x00")
		keyBuilder.WriteString(fmt.Sprintf("%#v", row[col]))
		values[col] = row[col]
	}
	return keyBuilder.String(), values
}

// metricValues collects the coercible float values of a metric across rows.
// Missing and non-coercible entries are excluded, not zeroed.
func metricValues(rows []map[string]interface{}, metric string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		v, ok := row[metric]
		if !ok || v == nil {
			continue
		}
		if f, ok := dataset.ToFloat64(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// countNonMissing counts rows with a present, non-nil value for the metric.
func countNonMissing(rows []map[string]interface{}, metric string) int {
	n := 0
	for _, row := range rows {
		if v, ok := row[metric]; ok && v != nil {
			n++
		}
	}
	return n
}

// aggregate applies the verb to a metric over rows. The bool is false when
// no value was aggregable (count excepted, which is always defined).
func aggregate(rows []map[string]interface{}, metric, agg string) (float64, bool) {
	if agg == AggCount {
		if metric == CountRows {
			return float64(len(rows)), true
		}
		return float64(countNonMissing(rows, metric)), true
	}

	vals := metricValues(rows, metric)
	if len(vals) == 0 {
		return 0, false
	}
	switch agg {
	case AggMean:
		return sum(vals) / float64(len(vals)), true
	case AggMin:
		min := vals[0]
		for _, v := range vals[1:] {
			if v < min {
				min = v
			}
		}
		return min, true
	case AggMax:
		max := vals[0]
		for _, v := range vals[1:] {
			if v > max {
				max = v
			}
		}
		return max, true
	case AggMedian:
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2, true
		}
		return sorted[mid], true
	default: // AggSum and anything unrecognized
		return sum(vals), true
	}
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}

// sortRowsDesc stable-sorts result rows descending by a numeric column.
// Rows without a comparable value sink to the bottom; ties keep encounter
// order.
func sortRowsDesc(rows []map[string]interface{}, column string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := dataset.ToFloat64(rows[i][column])
		b, bok := dataset.ToFloat64(rows[j][column])
		if aok && bok {
			return a > b
		}
		return aok && !bok
	})
}
