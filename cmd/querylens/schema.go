package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/querylens/querylens/dataset"
	"github.com/querylens/querylens/output"
)

var schemaFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "Show the inferred column kinds of a data file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFormat, "format", "table", "output format: table, json, csv")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(args[0])
	if err != nil {
		return err
	}

	summary := dataset.New([]string{"column", "kind", "non_null", "distinct"})
	for _, col := range ds.Describe() {
		summary.AppendRow(map[string]interface{}{
			"column":   col.Name,
			"kind":     col.Kind.String(),
			"non_null": col.NonNull,
			"distinct": col.Distinct,
		})
	}
	fmt.Fprintf(os.Stderr, "%s: %d rows, %d columns\n", args[0], ds.Len(), len(ds.Columns))
	return output.New(schemaFormat, os.Stdout).Format(summary)
}
