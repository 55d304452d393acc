package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"encoding/csv"
)

// FromCSV reads CSV data into a dataset. The first record is the header row.
// The field delimiter is auto-detected among ',', ';' and '\t' by counting
// occurrences in the header line.
func FromCSV(r io.Reader) (*Dataset, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = detectDelimiter(string(header))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	columns, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, c := range columns {
		columns[i] = strings.TrimSpace(c)
	}

	ds := New(columns)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip malformed records rather than failing the whole load.
			continue
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if i >= len(record) {
				break
			}
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				row[col] = nil
				continue
			}
			row[col] = cell
		}
		ds.AppendRow(row)
	}
	return ds, nil
}

// detectDelimiter picks the delimiter with the most occurrences in the
// first line, defaulting to comma.
func detectDelimiter(header string) rune {
	if idx := strings.IndexByte(header, '\n'); idx >= 0 {
		header = header[:idx]
	}
	best, bestCount := ',', strings.Count(header, ",")
	for _, cand := range []rune{';', '\t'} {
		if n := strings.Count(header, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

// Load reads a dataset from a file, dispatching on the file extension.
// Supported: .csv, .tsv, .xlsx, .parquet.
func Load(path string) (*Dataset, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return FromCSV(f)
	case strings.HasSuffix(lower, ".xlsx"):
		return FromXLSX(path)
	case strings.HasSuffix(lower, ".parquet"):
		return FromParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}
