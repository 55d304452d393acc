package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// FromXLSX reads the first worksheet of a .xlsx file into a dataset. The
// first row is the header. Only the minimal OOXML subset needed for tabular
// data is handled: shared strings, inline cells, and A1-style references.
func FromXLSX(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}

	shared := parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml"))
	sheetXML := readZipFile(zr, firstWorksheet(zr))
	if len(sheetXML) == 0 {
		return nil, fmt.Errorf("no worksheet found in %s", path)
	}

	rr := newSheetRowReader(sheetXML, shared)
	header, ok := rr.Next()
	if !ok || len(header) == 0 {
		return nil, fmt.Errorf("worksheet in %s has no header row", path)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	ds := New(columns)
	for {
		cells, ok := rr.Next()
		if !ok {
			break
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			var cell string
			if i < len(cells) {
				cell = strings.TrimSpace(cells[i])
			}
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

// firstWorksheet returns the lexically first worksheet path in the archive,
// which for single-sheet workbooks is the sheet the user sees first.
func firstWorksheet(zr *zip.Reader) string {
	var sheets []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/") && strings.HasSuffix(f.Name, ".xml") {
			sheets = append(sheets, f.Name)
		}
	}
	if len(sheets) == 0 {
		return ""
	}
	sort.Strings(sheets)
	return sheets[0]
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			data, _ := io.ReadAll(rc)
			_ = rc.Close()
			return data
		}
	}
	return nil
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "si" {
				buf.Reset()
			}
			if se.Name.Local == "t" {
				inT = true
			}
		case xml.EndElement:
			if se.Name.Local == "t" {
				inT = false
			}
			if se.Name.Local == "si" {
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inT {
				buf.Write([]byte(se))
			}
		}
	}
}

// sheetRowReader streams <row> elements from worksheet XML, resolving shared
// string references and sparse A1 cell positions.
type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

// Next returns the cells of the next row, or false at end of sheet.
func (r *sheetRowReader) Next() ([]string, bool) {
	var cells []string
	var inRow, inV, inIS bool
	var cellRef, cellType string
	var buf strings.Builder
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "row":
				inRow = true
				cells = nil
			case "c":
				if !inRow {
					continue
				}
				cellRef, cellType = "", ""
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						cellRef = a.Value
					case "t":
						cellType = a.Value
					}
				}
			case "is":
				inIS = true
			case "v", "t":
				if se.Name.Local == "v" || inIS {
					inV = true
					buf.Reset()
				}
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "v", "t":
				if inV {
					inV = false
					val := buf.String()
					if cellType == "s" {
						if idx, ok := ToFloat64(val); ok && int(idx) >= 0 && int(idx) < len(r.shared) {
							val = r.shared[int(idx)]
						}
					}
					cells = placeCell(cells, cellRef, val)
				}
			case "is":
				inIS = false
			case "row":
				if inRow {
					return cells, true
				}
			}
		case xml.CharData:
			if inV {
				buf.Write([]byte(se))
			}
		}
	}
}

// placeCell puts val at the column index encoded in an A1-style reference,
// padding skipped (empty) cells. With no reference it appends.
func placeCell(cells []string, ref, val string) []string {
	idx := colRefToIndex(ref)
	if idx < 0 {
		return append(cells, val)
	}
	for len(cells) <= idx {
		cells = append(cells, "")
	}
	cells[idx] = val
	return cells
}

// colRefToIndex converts the letter prefix of "BC12" to a zero-based column
// index. Returns -1 for references without letters.
func colRefToIndex(ref string) int {
	idx := 0
	seen := false
	for _, r := range ref {
		if r >= 'A' && r <= 'Z' {
			idx = idx*26 + int(r-'A'+1)
			seen = true
		} else if r >= 'a' && r <= 'z' {
			idx = idx*26 + int(r-'a'+1)
			seen = true
		} else {
			break
		}
	}
	if !seen {
		return -1
	}
	return idx - 1
}
