package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/querylens/querylens/domain"
)

// Confidence accounting: each successful column binding is worth a fixed
// increment, a vocabulary hit adds a small boost, and every pattern caps the
// final value below 1 to reflect residual ambiguity.
const (
	bindingIncrement  = 0.4
	vocabularyBoost   = 0.05
	structuralCeiling = 0.95
	fallbackCeiling   = 0.9
)

// Parse converts a prompt and the dataset's column names into a Spec. It
// never panics past this boundary: internal failures become a TaskError spec
// carrying the failure text.
func Parse(prompt string, columns []string) *Spec {
	return ParseWithVocabulary(prompt, columns, nil)
}

// ParseWithVocabulary is Parse with an optional domain vocabulary that
// boosts confidence for bound columns matching the domain's keyword lists
// and sways metric-vs-dimension classification. A nil vocabulary falls back
// to the name heuristic alone.
func ParseWithVocabulary(prompt string, columns []string, vocab *domain.Vocabulary) (spec *Spec) {
	defer func() {
		if r := recover(); r != nil {
			spec = errorSpec(prompt, fmt.Sprintf("internal parse failure: %v", r), nil)
		}
	}()

	ctx := &parseContext{
		raw:     prompt,
		prompt:  strings.ToLower(strings.TrimSpace(prompt)),
		columns: columns,
		vocab:   vocab,
	}

	for _, pat := range patterns {
		m := pat.re.FindStringSubmatch(ctx.prompt)
		if m == nil {
			continue
		}
		if s := pat.handle(ctx, m); s != nil {
			return ctx.finish(s)
		}
	}

	if s := ctx.fallbackScan(); s != nil {
		return ctx.finish(s)
	}

	return errorSpec(prompt,
		"could not match the question to any column in the data",
		Suggestions(columns))
}

// parseContext carries one parse invocation's inputs. The parser itself is
// stateless across calls.
type parseContext struct {
	raw     string
	prompt  string
	columns []string
	vocab   *domain.Vocabulary
}

// pattern pairs a syntactic matcher with its handler. Patterns are tried in
// order and the first one whose handler binds at least one column wins; a
// handler returning nil sends the prompt down the rest of the cascade.
type pattern struct {
	name   string
	re     *regexp.Regexp
	handle func(ctx *parseContext, m []string) *Spec
}

var patterns = []pattern{
	{
		name:   "count_by",
		re:     regexp.MustCompile(`^(?:count|total)(?:\s+of)?\s*(.*?)\s+(?:by|per|group\s+by)\s+(.+)$`),
		handle: handleCountBy,
	},
	{
		name:   "aggregate_by",
		re:     regexp.MustCompile(`^(sum|total|average|avg|mean|count|min|minimum|max|maximum|median)\s+(?:of\s+)?(.+?)\s+(?:by|per|group\s+by)\s+(.+)$`),
		handle: handleAggregateBy,
	},
	{
		name:   "top_n",
		re:     regexp.MustCompile(`^(?:top|bottom|best|worst|highest|lowest)\s+(\d+)?\s*(.+?)(?:\s+by\s+(.+))?$`),
		handle: handleTopN,
	},
	{
		name:   "rank",
		re:     regexp.MustCompile(`^(?:rank|order|sort)\s+(.+?)\s+by\s+(.+)$`),
		handle: handleRank,
	},
	{
		name:   "simple_aggregate",
		re:     regexp.MustCompile(`^(sum|total|average|avg|mean|count|min|minimum|max|maximum|median)\s+(?:of\s+)?(.+)$`),
		handle: handleSimpleAggregate,
	},
	{
		name:   "show_by",
		re:     regexp.MustCompile(`^(?:show|display|list)\s+(?:me\s+)?(.+?)\s+(?:by|per)\s+(.+)$`),
		handle: handleShowBy,
	},
	{
		name:   "trend",
		re:     regexp.MustCompile(`^(?:trend\s+(?:of\s+)?(.+)|(.+?)\s+over\s+time)$`),
		handle: handleTrend,
	},
	{
		name:   "distribution",
		re:     regexp.MustCompile(`^(?:distribution|breakdown)\s+of\s+(.+?)(?:\s+by\s+(.+))?$`),
		handle: handleDistribution,
	},
}

// aggVerbs maps prompt verbs to aggregation names.
var aggVerbs = map[string]string{
	"sum":     AggSum,
	"total":   AggSum,
	"average": AggMean,
	"avg":     AggMean,
	"mean":    AggMean,
	"count":   AggCount,
	"min":     AggMin,
	"minimum": AggMin,
	"max":     AggMax,
	"maximum": AggMax,
	"median":  AggMedian,
}

func handleCountBy(ctx *parseContext, m []string) *Spec {
	dims, bound := ctx.resolveDimensions(m[2])
	if len(dims) == 0 {
		return nil
	}
	spec := &Spec{Task: TaskGroupCount, Agg: AggCount, Dimensions: dims}
	if entity, ok := ctx.resolvePhrase(m[1]); ok && !contains(dims, entity) {
		spec.Metrics = []string{entity}
		bound++
	} else {
		spec.Metrics = []string{CountRows}
	}
	spec.Confidence = ctx.confidence(bound, structuralCeiling, spec)
	return spec
}

func handleAggregateBy(ctx *parseContext, m []string) *Spec {
	dims, bound := ctx.resolveDimensions(m[3])
	spec := &Spec{Task: TaskAggregateBy, Agg: aggVerbs[m[1]], Dimensions: dims}
	if metric, ok := ctx.resolvePhrase(m[2]); ok && !contains(dims, metric) {
		spec.Metrics = []string{metric}
		bound++
	}
	if bound == 0 {
		return nil
	}
	spec.Confidence = ctx.confidence(bound, structuralCeiling, spec)
	return spec
}

func handleTopN(ctx *parseContext, m []string) *Spec {
	n := 10
	if m[1] != "" {
		if parsed, err := strconv.Atoi(m[1]); err == nil && parsed > 0 {
			n = parsed
		}
	}
	spec := &Spec{Task: TaskRank, Agg: AggSum, TopN: n}
	bound := 0
	if entity, ok := ctx.resolvePhrase(m[2]); ok {
		spec.Dimensions = []string{entity}
		bound++
	}
	if m[3] != "" {
		if metric, ok := ctx.resolvePhrase(m[3]); ok && !contains(spec.Dimensions, metric) {
			spec.Metrics = []string{metric}
			bound++
		}
	}
	if len(spec.Metrics) == 0 {
		// No explicit metric; adopt the first other token that resolves.
		if metric, ok := ctx.scanForColumn(spec.Dimensions); ok {
			spec.Metrics = []string{metric}
			bound++
		}
	}
	if bound == 0 {
		return nil
	}
	spec.Confidence = ctx.confidence(bound, structuralCeiling, spec)
	return spec
}

func handleRank(ctx *parseContext, m []string) *Spec {
	spec := &Spec{Task: TaskRank, Agg: AggSum}
	bound := 0
	if entity, ok := ctx.resolvePhrase(m[1]); ok {
		spec.Dimensions = []string{entity}
		bound++
	}
	if metric, ok := ctx.resolvePhrase(m[2]); ok && !contains(spec.Dimensions, metric) {
		spec.Metrics = []string{metric}
		bound++
	}
	if bound == 0 {
		return nil
	}
	spec.Confidence = ctx.confidence(bound, structuralCeiling, spec)
	return spec
}

func handleSimpleAggregate(ctx *parseContext, m []string) *Spec {
	metric, ok := ctx.resolvePhrase(m[2])
	if !ok {
		return nil
	}
	spec := &Spec{Task: TaskAggregate, Agg: aggVerbs[m[1]], Metrics: []string{metric}}
	spec.Confidence = ctx.confidence(1, structuralCeiling, spec)
	return spec
}

func handleShowBy(ctx *parseContext, m []string) *Spec {
	dims, bound := ctx.resolveDimensions(m[2])
	spec := &Spec{Task: TaskGroupBy, Agg: AggSum, Dimensions: dims}
	if metric, ok := ctx.resolvePhrase(m[1]); ok && !contains(dims, metric) {
		spec.Metrics = []string{metric}
		bound++
	}
	if bound == 0 {
		return nil
	}
	spec.Confidence = ctx.confidence(bound, structuralCeiling, spec)
	return spec
}

func handleTrend(ctx *parseContext, m []string) *Spec {
	phrase := m[1]
	if phrase == "" {
		phrase = m[2]
	}
	metric, ok := ctx.resolvePhrase(phrase)
	if !ok {
		return nil
	}
	spec := &Spec{Task: TaskTrend, Agg: AggSum, Metrics: []string{metric}}
	spec.Confidence = ctx.confidence(1, structuralCeiling, spec)
	return spec
}

func handleDistribution(ctx *parseContext, m []string) *Spec {
	spec := &Spec{Agg: AggSum}
	bound := 0
	if x, ok := ctx.resolvePhrase(m[1]); ok {
		if ctx.classifyAsMetric(x) {
			spec.Metrics = []string{x}
		} else {
			spec.Dimensions = []string{x}
		}
		bound++
	}
	if m[2] != "" {
		if y, ok := ctx.resolvePhrase(m[2]); ok && !contains(spec.Metrics, y) && !contains(spec.Dimensions, y) {
			spec.Dimensions = append(spec.Dimensions, y)
			bound++
		}
	}
	if bound == 0 {
		return nil
	}
	classifyFallbackTask(spec)
	spec.Confidence = ctx.confidence(bound, structuralCeiling, spec)
	return spec
}

// fallbackScan tokenizes the whole prompt and resolves every token
// independently when no structural pattern bound anything.
func (ctx *parseContext) fallbackScan() *Spec {
	spec := &Spec{Agg: AggSum}
	bound := 0
	seen := map[string]bool{}
	for _, token := range tokenize(ctx.prompt) {
		col, ok := Resolve(token, ctx.columns)
		if !ok || seen[col] {
			continue
		}
		seen[col] = true
		if ctx.classifyAsMetric(col) {
			if len(spec.Metrics) < 3 {
				spec.Metrics = append(spec.Metrics, col)
				bound++
			}
		} else if len(spec.Dimensions) < 2 {
			spec.Dimensions = append(spec.Dimensions, col)
			bound++
		}
	}
	if bound == 0 {
		return nil
	}
	classifyFallbackTask(spec)
	spec.Confidence = ctx.confidence(bound, fallbackCeiling, spec)
	return spec
}

// classifyFallbackTask assigns a task from what resolved: dimensions only
// means counting groups, metric plus dimension means grouped values, and
// anything else is a plain preview.
func classifyFallbackTask(spec *Spec) {
	switch {
	case len(spec.Dimensions) > 0 && len(spec.Metrics) == 0:
		spec.Task = TaskGroupCount
		spec.Agg = AggCount
		spec.Metrics = []string{CountRows}
	case len(spec.Dimensions) > 0 && len(spec.Metrics) > 0:
		spec.Task = TaskGroupBy
	default:
		spec.Task = TaskExplore
	}
}

// finish stamps the shared fields every successful parse carries.
func (ctx *parseContext) finish(spec *Spec) *Spec {
	spec.Raw = ctx.raw
	if spec.Agg == "" {
		spec.Agg = AggSum
	}
	if spec.TopN == 0 && spec.Task == TaskRank {
		spec.TopN = 10
	}
	if year := yearPattern.FindString(ctx.prompt); year != "" {
		spec.Filters = append(spec.Filters, "year=="+year)
	}
	return spec
}

var yearPattern = regexp.MustCompile(`\b20\d\d\b`)

// confidence converts a binding count into a capped confidence value,
// adding the vocabulary boost for bound columns the domain knows about.
func (ctx *parseContext) confidence(bound int, ceiling float64, spec *Spec) float64 {
	conf := float64(bound) * bindingIncrement
	if ctx.vocab != nil {
		for _, m := range spec.Metrics {
			if m != CountRows && ctx.vocab.MatchesMetric(m) {
				conf += vocabularyBoost
			}
		}
		for _, d := range spec.Dimensions {
			if ctx.vocab.MatchesDimension(d) {
				conf += vocabularyBoost
			}
		}
	}
	if conf > ceiling {
		conf = ceiling
	}
	return conf
}

// classifyAsMetric decides metric-vs-dimension for a resolved column. The
// vocabulary, when present, outranks the name heuristic.
func (ctx *parseContext) classifyAsMetric(col string) bool {
	if ctx.vocab != nil {
		if ctx.vocab.MatchesMetric(col) {
			return true
		}
		if ctx.vocab.MatchesDimension(col) {
			return false
		}
	}
	return LooksNumeric(col)
}

// resolveDimensions splits a comma-separated dimension phrase and resolves
// each part, keeping at most two.
func (ctx *parseContext) resolveDimensions(phrase string) ([]string, int) {
	var dims []string
	for _, part := range splitList(phrase) {
		if len(dims) == 2 {
			break
		}
		if col, ok := ctx.resolvePhrase(part); ok && !contains(dims, col) {
			dims = append(dims, col)
		}
	}
	return dims, len(dims)
}

// resolvePhrase resolves a captured phrase, trying the cleaned phrase as a
// whole, then its individual words, each also in singular form so "products"
// can still reach a column like product_name through the fuzzier rules.
func (ctx *parseContext) resolvePhrase(phrase string) (string, bool) {
	cleaned := cleanPhrase(phrase)
	if cleaned == "" {
		return "", false
	}
	candidates := []string{cleaned}
	if s := strings.TrimSuffix(cleaned, "s"); s != cleaned {
		candidates = append(candidates, s)
	}
	if words := strings.Fields(cleaned); len(words) > 1 {
		for _, w := range words {
			candidates = append(candidates, w)
			if s := strings.TrimSuffix(w, "s"); s != w {
				candidates = append(candidates, s)
			}
		}
	}
	for _, cand := range candidates {
		if col, ok := Resolve(cand, ctx.columns); ok {
			return col, true
		}
	}
	return "", false
}

// scanForColumn returns the first prompt token resolving to a column not
// already used, for recovering an implicit metric.
func (ctx *parseContext) scanForColumn(exclude []string) (string, bool) {
	for _, token := range tokenize(ctx.prompt) {
		if col, ok := Resolve(token, ctx.columns); ok && !contains(exclude, col) {
			return col, true
		}
	}
	return "", false
}

// fillerWords are dropped from captured phrases and skipped during token
// scans. They include the pattern verbs themselves so a scan over the whole
// prompt never resolves a verb against a column by accident.
var fillerWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "by": true, "per": true,
	"for": true, "in": true, "on": true, "to": true, "and": true, "all": true,
	"each": true, "every": true, "me": true, "my": true, "is": true,
	"are": true, "what": true, "which": true, "how": true, "many": true,
	"much": true, "show": true, "display": true, "list": true, "count": true,
	"sum": true, "total": true, "average": true, "avg": true, "mean": true,
	"min": true, "max": true, "median": true, "top": true, "bottom": true,
	"best": true, "worst": true, "highest": true, "lowest": true,
	"rank": true, "order": true, "sort": true, "group": true, "from": true,
	"distribution": true, "breakdown": true, "trend": true, "over": true,
	"time": true, "please": true, "records": true, "rows": true, "data": true,
}

var tokenPattern = regexp.MustCompile(`[a-z0-9_]+`)

// tokenize splits a lowered prompt into candidate column tokens, dropping
// filler words and bare numbers.
func tokenize(prompt string) []string {
	var out []string
	for _, tok := range tokenPattern.FindAllString(prompt, -1) {
		if fillerWords[tok] {
			continue
		}
		if _, err := strconv.Atoi(tok); err == nil {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// cleanPhrase strips filler words and punctuation from a captured phrase.
func cleanPhrase(phrase string) string {
	var kept []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(phrase), -1) {
		if fillerWords[tok] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// splitList splits a phrase on commas and "and".
func splitList(phrase string) []string {
	phrase = strings.ReplaceAll(phrase, " and ", ",")
	parts := strings.Split(phrase, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
