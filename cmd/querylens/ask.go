package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/querylens/querylens/dataset"
	"github.com/querylens/querylens/domain"
	"github.com/querylens/querylens/output"
	"github.com/querylens/querylens/query"
)

var (
	askFile   string
	askFormat string
	askDomain string
	askTop    int
)

var askCmd = &cobra.Command{
	Use:   "ask \"<question>\"",
	Short: "Ask a plain-English question about a data file",
	Example: `  querylens ask -f orders.csv "top 5 dealers by sales"
  querylens ask -f orders.csv --format json "sum of revenue by region"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "data file to query (csv, tsv, xlsx, parquet)")
	askCmd.Flags().StringVar(&askFormat, "format", "", "output format: table, json, csv")
	askCmd.Flags().StringVar(&askDomain, "domain", "", "domain vocabulary: builtin name or YAML file path")
	askCmd.Flags().IntVar(&askTop, "top", 0, "override the result row limit")
	_ = askCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")
	requestID := uuid.NewString()
	log := slog.With("request_id", requestID)

	ds, err := dataset.Load(askFile)
	if err != nil {
		return err
	}
	log.Debug("loaded dataset", "file", askFile, "rows", ds.Len(), "columns", len(ds.Columns))

	vocab, err := resolveVocabulary()
	if err != nil {
		return err
	}

	spec := query.ParseWithVocabulary(prompt, ds.Columns, vocab)
	log.Debug("parsed prompt", "task", string(spec.Task), "confidence", spec.Confidence)

	if spec.Task == query.TaskError {
		fmt.Fprintf(os.Stderr, "Could not understand the question: %s\n", spec.Error)
		if len(spec.Suggestions) > 0 {
			fmt.Fprintln(os.Stderr, "Try one of:")
			for _, s := range spec.Suggestions {
				fmt.Fprintf(os.Stderr, "  querylens ask -f %s %q\n", askFile, s)
			}
		}
		return nil
	}

	if askTop > 0 {
		spec.TopN = askTop
	}

	result, effective := query.Execute(spec, ds)
	printSpec(effective)
	if effective.Error != "" {
		fmt.Fprintf(os.Stderr, "Note: %s (showing a raw preview)\n", effective.Error)
	}

	format := askFormat
	if format == "" {
		format = viper.GetString("format")
	}
	return output.New(format, os.Stdout).Format(result)
}

// printSpec echoes the query that was actually executed, for transparency.
func printSpec(spec *query.Spec) {
	var parts []string
	parts = append(parts, "task="+string(spec.Task), "agg="+spec.Agg)
	if len(spec.Metrics) > 0 {
		parts = append(parts, "metrics="+strings.Join(displayMetrics(spec.Metrics), ","))
	}
	if len(spec.Dimensions) > 0 {
		parts = append(parts, "dimensions="+strings.Join(spec.Dimensions, ","))
	}
	if spec.TopN > 0 {
		parts = append(parts, fmt.Sprintf("top_n=%d", spec.TopN))
	}
	if len(spec.Filters) > 0 {
		parts = append(parts, "filters="+strings.Join(spec.Filters, ";"))
	}
	parts = append(parts, fmt.Sprintf("confidence=%.2f", spec.Confidence))
	fmt.Fprintln(os.Stderr, "Executed: "+strings.Join(parts, " "))
}

func displayMetrics(metrics []string) []string {
	out := make([]string, len(metrics))
	for i, m := range metrics {
		if m == query.CountRows {
			out[i] = "row count"
		} else {
			out[i] = m
		}
	}
	return out
}

// resolveVocabulary turns the --domain flag (or config value) into a
// vocabulary: a builtin name first, then a YAML file path.
func resolveVocabulary() (*domain.Vocabulary, error) {
	name := askDomain
	if name == "" {
		name = viper.GetString("domain")
	}
	if name == "" {
		return nil, nil
	}
	if v := domain.Builtin(name); v != nil {
		return v, nil
	}
	if _, err := os.Stat(name); err == nil {
		return domain.LoadFile(name)
	}
	return nil, fmt.Errorf("unknown domain %q: not a builtin name or a readable file", name)
}
