// Package output provides formatters for rendering query results.
//
// All formatters consume a dataset, preserving its column order, and write to
// an io.Writer. Supported formats are JSON Lines, CSV and an aligned text
// table.
//
// Example usage:
//
//	formatter := output.NewTableFormatter(os.Stdout)
//	if err := formatter.Format(result); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"io"

	"github.com/querylens/querylens/dataset"
)

// Formatter defines the interface for result formatters.
type Formatter interface {
	// Format writes the dataset in the formatter's specific format
	Format(ds *dataset.Dataset) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// New returns the formatter for a format name: "json", "csv" or "table".
// Unknown names get the table formatter.
func New(format string, w io.Writer) Formatter {
	switch format {
	case "json", "jsonl":
		return NewJSONFormatter(w)
	case "csv":
		return NewCSVFormatter(w)
	default:
		return NewTableFormatter(w)
	}
}
