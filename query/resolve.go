package query

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// similarityThreshold is the minimum levenshtein similarity ratio for the
// fuzzy fallback rule to accept a column.
const similarityThreshold = 0.6

// metricIndicators are column-name substrings that mark a column as a likely
// numeric metric. This is a deliberate name-only heuristic: it never inspects
// data, so a column like "rate_limit_id" will misclassify. The suggestion and
// fallback logic depends on this exact behavior.
var metricIndicators = []string{
	"amount", "count", "rate", "revenue", "cost", "price", "sales",
	"quantity", "value", "total", "avg", "sum", "gmv", "margin",
	"premium", "claim", "units", "qty",
}

// dimensionIndicators mark columns likely to be categorical axes; used only
// for synthesizing example queries.
var dimensionIndicators = []string{
	"id", "name", "category", "status", "region", "type", "segment",
	"city", "state", "country", "channel", "product", "brand", "group",
}

// Resolve fuzzy-matches a free-text token to one column name. The cascade
// runs from exact to progressively fuzzier rules and returns on the first
// hit; ties go to the lowest-index column. The second return is false when
// nothing matched.
func Resolve(token string, columns []string) (string, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" || len(columns) == 0 {
		return "", false
	}

	// 1. Case-insensitive exact match.
	for _, col := range columns {
		if strings.ToLower(col) == token {
			return col, true
		}
	}

	// 2. Singular form of a plural token.
	if strings.HasSuffix(token, "s") {
		singular := strings.TrimSuffix(token, "s")
		for _, col := range columns {
			if strings.ToLower(col) == singular {
				return col, true
			}
		}
	}

	// 3. Substring containment either direction.
	for _, col := range columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, token) || strings.Contains(token, lower) {
			return col, true
		}
	}

	// 4. Underscore word-boundary containment.
	for _, col := range columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "_"+token) || strings.Contains(lower, token+"_") {
			return col, true
		}
	}

	// 5. Similarity ratio against all columns; best wins above threshold.
	best, bestRatio := "", 0.0
	for _, col := range columns {
		ratio := similarity(token, strings.ToLower(col))
		if ratio > bestRatio {
			best, bestRatio = col, ratio
		}
	}
	if bestRatio > similarityThreshold {
		return best, true
	}
	return "", false
}

// similarity returns a [0,1] ratio derived from levenshtein edit distance.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// LooksNumeric reports whether a column name reads like a numeric metric per
// the fixed indicator vocabulary. Case-insensitive substring test only.
func LooksNumeric(column string) bool {
	lower := strings.ToLower(column)
	for _, ind := range metricIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// looksCategorical reports whether a column name reads like a categorical
// axis. Used when synthesizing example queries.
func looksCategorical(column string) bool {
	lower := strings.ToLower(column)
	for _, ind := range dimensionIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// timeKeywords mark a column as a date or time axis.
var timeKeywords = []string{"date", "month", "year", "time", "day", "quarter", "period"}

// detectTimeColumn returns the first column whose name contains a time
// keyword, or "" when none does.
func detectTimeColumn(columns []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, kw := range timeKeywords {
			if strings.Contains(lower, kw) {
				return col
			}
		}
	}
	return ""
}
