package query

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/querylens/querylens/dataset"
)

const (
	// maxResultRows is the absolute row cap applied to every result,
	// independent of TopN, to bound downstream rendering.
	maxResultRows = 1000
	// defaultGroupRows truncates grouped results when no TopN was asked.
	defaultGroupRows = 10
	// defaultExploreRows bounds raw previews.
	defaultExploreRows = 100
	// errorPreviewRows bounds the fallback preview after a failure.
	errorPreviewRows = 10
)

// Execute runs a spec against a dataset and returns the result table plus
// the spec that was actually executed. Column references are re-validated
// against the live schema first; stale ones are silently dropped, and a spec
// left with nothing usable degrades to an explore preview. Execute never
// returns an error and never panics: an internal failure yields a small raw
// preview and an Error annotation on the returned spec.
func Execute(spec *Spec, ds *dataset.Dataset) (result *dataset.Dataset, effective *Spec) {
	effective = spec.Clone()
	working := ds

	defer func() {
		if r := recover(); r != nil {
			slog.Error("query execution failed, returning raw preview",
				"task", string(effective.Task), "error", fmt.Sprint(r))
			effective.Error = fmt.Sprintf("execution failure: %v", r)
			result = working.Head(errorPreviewRows)
		}
	}()

	if effective.Task == TaskError {
		return ds.Head(errorPreviewRows), effective
	}

	revalidate(effective, ds)
	if len(effective.Dimensions) == 0 && !effective.HasMetric() &&
		effective.Task != TaskExplore && effective.Task != TaskGroupCount {
		effective.Task = TaskExplore
	}
	if effective.Task == TaskGroupCount && len(effective.Dimensions) == 0 {
		effective.Task = TaskExplore
	}

	working = applyFilters(ds, effective.Filters)

	switch effective.Task {
	case TaskGroupCount:
		result = executeGroupCount(effective, working)
	case TaskAggregateBy, TaskGroupBy:
		result = executeAggregateBy(effective, working)
	case TaskRank:
		result = executeRank(effective, working)
	case TaskAggregate:
		result = executeAggregate(effective, working)
	case TaskTrend:
		result = executeTrend(effective, working)
	default:
		result = working.Head(previewLimit(effective))
	}

	return result.Head(maxResultRows), effective
}

// revalidate drops metric and dimension references absent from the current
// schema and re-applies the size invariants.
func revalidate(spec *Spec, ds *dataset.Dataset) {
	var metrics []string
	for _, m := range spec.Metrics {
		if m == CountRows || ds.HasColumn(m) {
			metrics = append(metrics, m)
		}
	}
	if len(metrics) > 3 {
		metrics = metrics[:3]
	}
	spec.Metrics = metrics

	var dims []string
	for _, d := range spec.Dimensions {
		if ds.HasColumn(d) {
			dims = append(dims, d)
		}
	}
	if len(dims) > 2 {
		dims = dims[:2]
	}
	spec.Dimensions = dims
}

// groupLimit returns the row budget for grouped results.
func groupLimit(spec *Spec) int {
	if spec.TopN > 0 {
		return spec.TopN
	}
	return defaultGroupRows
}

func previewLimit(spec *Spec) int {
	if spec.TopN > 0 {
		return spec.TopN
	}
	return defaultExploreRows
}

func executeGroupCount(spec *Spec, ds *dataset.Dataset) *dataset.Dataset {
	metric := CountRows
	if len(spec.Metrics) > 0 {
		metric = spec.Metrics[0]
	}

	// A dimension literally named "count" must keep its group values, so
	// the tally column renames itself out of the way.
	countCol := "count"
	for contains(spec.Dimensions, countCol) {
		countCol = "row_" + countCol
	}

	out := dataset.New(append(append([]string(nil), spec.Dimensions...), countCol))
	for _, g := range groupRows(ds.Rows, spec.Dimensions) {
		row := make(map[string]interface{}, len(spec.Dimensions)+1)
		for k, v := range g.values {
			row[k] = v
		}
		n, _ := aggregate(g.rows, metric, AggCount)
		row[countCol] = int(n)
		out.AppendRow(row)
	}
	sortRowsDesc(out.Rows, countCol)
	return out.Head(groupLimit(spec))
}

func executeAggregateBy(spec *Spec, ds *dataset.Dataset) *dataset.Dataset {
	metrics := usableMetrics(spec)

	// Dimensions without a usable metric degrade to the distinct
	// combinations of the dimension columns, uncounted.
	if len(metrics) == 0 {
		out := dataset.New(spec.Dimensions)
		for _, g := range groupRows(ds.Rows, spec.Dimensions) {
			out.AppendRow(g.values)
		}
		return out.Head(groupLimit(spec))
	}

	// Metrics without dimensions collapse to a single aggregate row.
	if len(spec.Dimensions) == 0 {
		return executeAggregate(spec, ds)
	}

	out := dataset.New(append(append([]string(nil), spec.Dimensions...), metrics...))
	for _, g := range groupRows(ds.Rows, spec.Dimensions) {
		row := make(map[string]interface{}, len(spec.Dimensions)+len(metrics))
		for k, v := range g.values {
			row[k] = v
		}
		for _, metric := range metrics {
			if v, ok := aggregate(g.rows, metric, spec.Agg); ok {
				row[metric] = v
			} else {
				row[metric] = nil
			}
		}
		out.AppendRow(row)
	}
	sortRowsDesc(out.Rows, metrics[0])
	return out.Head(groupLimit(spec))
}

func executeRank(spec *Spec, ds *dataset.Dataset) *dataset.Dataset {
	// With a grouping entity this is grouped aggregation; without one it
	// sorts the raw rows by the metric.
	if len(spec.Dimensions) > 0 {
		return executeAggregateBy(spec, ds)
	}
	metrics := usableMetrics(spec)
	if len(metrics) == 0 {
		return ds.Head(previewLimit(spec))
	}
	rows := append([]map[string]interface{}(nil), ds.Rows...)
	sortRowsDesc(rows, metrics[0])
	out := dataset.New(ds.Columns)
	out.Rows = rows
	return out.Head(groupLimit(spec))
}

func executeAggregate(spec *Spec, ds *dataset.Dataset) *dataset.Dataset {
	metrics := usableMetrics(spec)
	if len(metrics) == 0 {
		return ds.Head(previewLimit(spec))
	}
	var columns []string
	row := make(map[string]interface{}, len(metrics))
	for _, metric := range metrics {
		name := spec.Agg + "_" + metric
		columns = append(columns, name)
		if spec.Agg == AggCount {
			n, _ := aggregate(ds.Rows, metric, AggCount)
			row[name] = int(n)
			continue
		}
		if v, ok := aggregate(ds.Rows, metric, spec.Agg); ok {
			row[name] = v
		} else {
			row[name] = nil
		}
	}
	out := dataset.New(columns)
	out.AppendRow(row)
	return out
}

func executeTrend(spec *Spec, ds *dataset.Dataset) *dataset.Dataset {
	timeCol := detectTimeColumn(ds.Columns)
	if timeCol == "" {
		return ds.Head(previewLimit(spec))
	}
	metrics := usableMetrics(spec)

	type bucket struct {
		sums  map[string]float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, row := range ds.Rows {
		t, ok := parseDate(row[timeCol])
		if !ok {
			continue
		}
		month := t.Format("2006-01")
		b := buckets[month]
		if b == nil {
			b = &bucket{sums: make(map[string]float64)}
			buckets[month] = b
		}
		b.count++
		for _, metric := range metrics {
			if v, ok := row[metric]; ok && v != nil {
				if f, ok := dataset.ToFloat64(v); ok {
					b.sums[metric] += f
				}
			}
		}
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	columns := append([]string{"month"}, metrics...)
	if len(metrics) == 0 {
		columns = append(columns, "count")
	}
	out := dataset.New(columns)
	for _, month := range months {
		row := map[string]interface{}{"month": month}
		if len(metrics) == 0 {
			row["count"] = buckets[month].count
		}
		for _, metric := range metrics {
			row[metric] = buckets[month].sums[metric]
		}
		out.AppendRow(row)
	}
	return out
}

// usableMetrics strips the count sentinel.
func usableMetrics(spec *Spec) []string {
	var out []string
	for _, m := range spec.Metrics {
		if m != CountRows {
			out = append(out, m)
		}
	}
	return out
}
