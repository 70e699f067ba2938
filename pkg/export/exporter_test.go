package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleGrids() []Grid {
	return []Grid{
		{Title: "G1", Header: []string{"Day", "1", "2"}, Rows: [][]string{{"Mon", "M101\nAnn\n312", ""}, {"Tue"}}},
		{Title: "G2", Subtitle: "Total credit: 1.5", Header: []string{"Day", "1", "2"}, Rows: [][]string{{"Mon", "Assembly", "no subject"}}},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleGrids())
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(out))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	// the reader drops the blank separator line
	require.Len(t, records, 7)
	assert.Equal(t, []string{"G1"}, records[0])
	assert.Equal(t, []string{"Mon", "M101\nAnn\n312", ""}, records[2])
	assert.Equal(t, []string{"Tue", "", ""}, records[3])
	assert.Equal(t, []string{"G2"}, records[4])
	assert.Contains(t, string(out), "\n\nG2\n")
}

func TestCSVExporterRequiresHeader(t *testing.T) {
	_, err := NewCSVExporter().Render(nil)
	assert.Error(t, err)
	_, err = NewCSVExporter().Render([]Grid{{Title: "x"}})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter("").Render(sampleGrids())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths(12)
	total := 0.0
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pageWidth, total, 0.001)
	assert.Equal(t, firstColumn, widths[0])
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleGrids())
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer book.Close()
	require.Equal(t, []string{"G1", "G2"}, book.GetSheetList())

	rows, err := book.GetRows("G1")
	require.NoError(t, err)
	assert.Equal(t, []string{"G1"}, rows[0])
	assert.Equal(t, []string{"Day", "1", "2"}, rows[1])
	assert.Equal(t, "M101\nAnn\n312", rows[2][1])

	subtitle, err := book.GetCellValue("G2", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Total credit: 1.5", subtitle)

	style, err := book.GetCellStyle("G1", "B3")
	require.NoError(t, err)
	assert.NotZero(t, style)
}

func TestXLSXExporterRequiresHeader(t *testing.T) {
	_, err := NewXLSXExporter().Render(nil)
	assert.Error(t, err)
	_, err = NewXLSXExporter().Render([]Grid{{Title: "x"}})
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "ม.4-1", sheetName("ม.4/1", 0, used))
	assert.Equal(t, "ม.4-1 (2)", sheetName("ม.4/1", 1, used))
	assert.Equal(t, "Sheet3", sheetName(" ", 2, used))
	assert.Equal(t, "a-b(c)", sheetName("a:b[c]?*", 3, used))

	long := sheetName(strings.Repeat("ห", 40), 4, used)
	assert.Equal(t, maxSheetName, utf8.RuneCountInString(long))
}
