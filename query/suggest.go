package query

import "fmt"

// Suggestions synthesizes up to three example prompts from column names that
// look categorical or numeric, so a failed parse still teaches the user what
// the data can answer. Purely name-based, like the rest of the heuristics.
func Suggestions(columns []string) []string {
	var numeric, categorical string
	for _, col := range columns {
		if numeric == "" && LooksNumeric(col) {
			numeric = col
		}
		if categorical == "" && !LooksNumeric(col) && looksCategorical(col) {
			categorical = col
		}
	}
	// Any non-numeric column will do as a grouping axis if the lexicon
	// found nothing.
	if categorical == "" {
		for _, col := range columns {
			if !LooksNumeric(col) {
				categorical = col
				break
			}
		}
	}

	var out []string
	switch {
	case numeric != "" && categorical != "":
		out = append(out,
			fmt.Sprintf("sum of %s by %s", numeric, categorical),
			fmt.Sprintf("top 10 %s by %s", categorical, numeric),
			fmt.Sprintf("count by %s", categorical),
		)
	case categorical != "":
		out = append(out, fmt.Sprintf("count by %s", categorical))
	case numeric != "":
		out = append(out, fmt.Sprintf("sum of %s", numeric))
	}
	if len(out) == 0 && len(columns) > 0 {
		out = append(out, fmt.Sprintf("show %s", columns[0]))
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}
