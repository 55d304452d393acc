package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/querylens/querylens/dataset"
)

// TableFormatter renders rows as an aligned text table for terminal display
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new text table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format writes the dataset as an aligned table with a header row
func (t *TableFormatter) Format(ds *dataset.Dataset) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(ds.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range ds.Rows {
		record := make([]string, len(ds.Columns))
		for i, col := range ds.Columns {
			record[i] = cellString(row[col])
		}
		table.Append(record)
	}

	table.Render()
	return nil
}
