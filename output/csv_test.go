package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/querylens/querylens/dataset"
)

func resultFixture() *dataset.Dataset {
	ds := dataset.New([]string{"region", "sales"})
	ds.AppendRow(map[string]interface{}{"region": "north", "sales": float64(150)})
	ds.AppendRow(map[string]interface{}{"region": "south", "sales": nil})
	return ds
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewCSVFormatter(&buf)
	if err := formatter.Format(resultFixture()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "region,sales" {
		t.Errorf("header = %q, want column order preserved", lines[0])
	}
	if lines[1] != "north,150" {
		t.Errorf("row 1 = %q, want %q", lines[1], "north,150")
	}
	if lines[2] != "south," {
		t.Errorf("row 2 = %q, want missing value rendered empty", lines[2])
	}
}

func TestCSVFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	ds := dataset.New([]string{"a", "b"})
	if err := NewCSVFormatter(&buf).Format(ds); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "a,b" {
		t.Errorf("empty dataset still writes a header, got %q", buf.String())
	}
}

func TestNewSelectsFormatter(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		format string
		want   string
	}{
		{"json", "*output.JSONFormatter"},
		{"jsonl", "*output.JSONFormatter"},
		{"csv", "*output.CSVFormatter"},
		{"table", "*output.TableFormatter"},
		{"nonsense", "*output.TableFormatter"},
	}
	for _, tt := range tests {
		f := New(tt.format, &buf)
		got := typeName(f)
		if got != tt.want {
			t.Errorf("New(%q) = %s, want %s", tt.format, got, tt.want)
		}
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case *JSONFormatter:
		return "*output.JSONFormatter"
	case *CSVFormatter:
		return "*output.CSVFormatter"
	case *TableFormatter:
		return "*output.TableFormatter"
	default:
		return "unknown"
	}
}
