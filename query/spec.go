package query

// Task identifies the requested shape of a query result.
type Task string

const (
	// TaskRank ranks entities by a metric, truncated to TopN.
	TaskRank Task = "rank"
	// TaskAggregate collapses the whole dataset to a single aggregate row.
	TaskAggregate Task = "aggregate"
	// TaskAggregateBy aggregates metrics per dimension group.
	TaskAggregateBy Task = "aggregate_by"
	// TaskGroupCount counts rows (or non-missing metric values) per group.
	TaskGroupCount Task = "group_count"
	// TaskGroupBy groups metrics by dimensions without an explicit verb.
	TaskGroupBy Task = "group_by"
	// TaskTrend buckets metrics by calendar month over a time column.
	TaskTrend Task = "trend"
	// TaskExplore returns a raw preview of the data.
	TaskExplore Task = "explore"
	// TaskError marks a prompt that could not be understood at all.
	TaskError Task = "error"
)

// Aggregation verbs.
const (
	AggSum    = "sum"
	AggMean   = "mean"
	AggCount  = "count"
	AggMin    = "min"
	AggMax    = "max"
	AggMedian = "median"
)

// CountRows is the metric sentinel meaning "count rows per group" rather
// than counting a named column's non-missing values.
const CountRows = "__count__"

// Spec is a structured query specification produced by Parse and consumed by
// Execute. It is read-only after construction; Execute returns an amended
// copy when it had to drop stale column references.
type Spec struct {
	// Task describes the requested result shape.
	Task Task
	// Metrics are resolved column names (0-3) to aggregate or sort by.
	// The first metric is the primary sort and aggregation key.
	Metrics []string
	// Dimensions are resolved column names (0-2) to group by.
	Dimensions []string
	// Agg is the aggregation verb. Defaults to AggSum.
	Agg string
	// TopN limits result rows. 0 means the task default.
	TopN int
	// Filters are raw expressions like "year==2024", applied in order.
	Filters []string
	// Confidence is a [0,1] self-estimate of parse quality. Zero only for
	// unmatched or error specs.
	Confidence float64
	// Raw is the original prompt, kept for audit.
	Raw string
	// Error explains a TaskError spec, or annotates a degraded execution.
	Error string
	// Suggestions are example prompts offered when nothing could be parsed.
	Suggestions []string
}

// Clone returns a deep copy of the spec.
func (s *Spec) Clone() *Spec {
	out := *s
	out.Metrics = append([]string(nil), s.Metrics...)
	out.Dimensions = append([]string(nil), s.Dimensions...)
	out.Filters = append([]string(nil), s.Filters...)
	out.Suggestions = append([]string(nil), s.Suggestions...)
	return &out
}

// HasMetric reports whether the spec carries a usable (non-sentinel) metric.
func (s *Spec) HasMetric() bool {
	for _, m := range s.Metrics {
		if m != CountRows {
			return true
		}
	}
	return false
}

// errorSpec builds a TaskError spec for a prompt.
func errorSpec(prompt, msg string, suggestions []string) *Spec {
	return &Spec{
		Task:        TaskError,
		Agg:         AggSum,
		Raw:         prompt,
		Error:       msg,
		Suggestions: suggestions,
	}
}
