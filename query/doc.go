// Package query translates plain-English prompts into structured query
// specifications and executes them against tabular datasets.
//
// The pipeline has two halves. Parse matches a prompt against an ordered list
// of syntactic patterns, resolving column references fuzzily against the
// dataset's schema, and produces a Spec with a confidence estimate. Execute
// applies the Spec's filters, grouping, aggregation, sorting and truncation
// to a dataset and returns a bounded result table together with the spec that
// was actually run.
//
// Neither half ever fails hard: an unparseable prompt yields a Spec with
// TaskError and example suggestions, and an execution problem degrades to a
// raw data preview. Callers always get something renderable back.
//
// Example usage:
//
//	spec := query.Parse("top 5 dealers by sales", ds.Columns)
//	result, effective := query.Execute(spec, ds)
package query
