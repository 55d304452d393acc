package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/querylens/querylens/dataset"
)

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the dataset as CSV with a header row in dataset column order
func (c *CSVFormatter) Format(ds *dataset.Dataset) error {
	csvWriter := csv.NewWriter(c.writer)

	if len(ds.Columns) > 0 {
		if err := csvWriter.Write(ds.Columns); err != nil {
			return err
		}
	}

	for _, row := range ds.Rows {
		record := make([]string, len(ds.Columns))
		for i, col := range ds.Columns {
			record[i] = cellString(row[col])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// cellString renders a cell value for textual output. Missing values render
// empty; floats drop trailing zeros.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case float32:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
