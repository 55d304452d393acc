package dataset

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeXLSX assembles an xlsx archive from raw part contents.
func writeXLSX(t *testing.T, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xlsx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

const testSharedStrings = `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
	`<si><t>region</t></si>` +
	`<si><t>sales</t></si>` +
	`<si><t>north</t></si>` +
	`<si><t>south</t></si>` +
	`</sst>`

// The sheet mixes shared-string cells, raw numeric cells, an inline string,
// and sparse rows where one side of the pair is absent.
const testSheet1 = `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
	`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>` +
	`<row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>100</v></c></row>` +
	`<row r="3"><c r="B3"><v>250</v></c></row>` +
	`<row r="4"><c r="A4" t="s"><v>3</v></c></row>` +
	`<row r="5"><c r="A5" t="inlineStr"><is><t>west</t></is></c><c r="B5"><v>50</v></c></row>` +
	`</sheetData></worksheet>`

const testSheet2 = `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
	`<row r="1"><c r="A1" t="inlineStr"><is><t>other</t></is></c></row>` +
	`<row r="2"><c r="A2"><v>1</v></c></row>` +
	`</sheetData></worksheet>`

func TestFromXLSX(t *testing.T) {
	path := writeXLSX(t, map[string]string{
		"xl/sharedStrings.xml":     testSharedStrings,
		"xl/worksheets/sheet1.xml": testSheet1,
	})

	ds, err := FromXLSX(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "sales"}, ds.Columns)
	require.Equal(t, 4, ds.Len())

	assert.Equal(t, "north", ds.Rows[0]["region"], "shared string resolved")
	assert.Equal(t, "100", ds.Rows[0]["sales"], "raw numeric cell kept as text")

	assert.Nil(t, ds.Rows[1]["region"], "skipped leading cell pads to missing")
	assert.Equal(t, "250", ds.Rows[1]["sales"])

	assert.Equal(t, "south", ds.Rows[2]["region"])
	assert.Nil(t, ds.Rows[2]["sales"], "absent trailing cell loads as missing")

	assert.Equal(t, "west", ds.Rows[3]["region"], "inline string resolved")
	assert.Equal(t, "50", ds.Rows[3]["sales"])
}

func TestFromXLSXFirstWorksheet(t *testing.T) {
	path := writeXLSX(t, map[string]string{
		"xl/sharedStrings.xml":     testSharedStrings,
		"xl/worksheets/sheet2.xml": testSheet2,
		"xl/worksheets/sheet1.xml": testSheet1,
	})

	ds, err := FromXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "sales"}, ds.Columns, "lexically first sheet wins")
}

func TestFromXLSXNoWorksheet(t *testing.T) {
	path := writeXLSX(t, map[string]string{
		"xl/sharedStrings.xml": testSharedStrings,
	})
	_, err := FromXLSX(path)
	assert.Error(t, err)
}

func TestFromXLSXNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	_, err := FromXLSX(path)
	assert.Error(t, err)
}
