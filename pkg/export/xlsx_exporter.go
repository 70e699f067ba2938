package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	maxSheetName  = 31
	xlsxColWidth  = 15
	xlsxRowHeight = 45
)

var sheetNameReplacer = strings.NewReplacer("/", "-", `\`, "-", "?", "", "*", "", "[", "(", "]", ")", ":", "-")

// XLSXExporter renders each grid on its own worksheet, titled by the grid.
type XLSXExporter struct{}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render lays a grid out as title and subtitle on row 1, the header on row 2
// and the body below it, every table cell bordered, centred and wrapped.
func (e *XLSXExporter) Render(grids []Grid) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one grid")
	}
	f := excelize.NewFile()
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	first := f.GetSheetName(0)
	used := map[string]bool{}
	for i, grid := range grids {
		if len(grid.Header) == 0 {
			return nil, fmt.Errorf("grid %q has no header", grid.Title)
		}
		name := sheetName(grid.Title, i, used)
		if i == 0 {
			err = f.SetSheetName(first, name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			return nil, fmt.Errorf("xlsx sheet %q: %w", name, err)
		}
		if err := writeGrid(f, name, grid, style); err != nil {
			return nil, fmt.Errorf("xlsx sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeGrid(f *excelize.File, sheet string, grid Grid, style int) error {
	set := func(col, row int, value string, styled bool) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
		if !styled {
			return nil
		}
		return f.SetCellStyle(sheet, cell, cell, style)
	}

	if err := set(1, 1, grid.Title, true); err != nil {
		return err
	}
	if grid.Subtitle != "" {
		if err := set(2, 1, grid.Subtitle, false); err != nil {
			return err
		}
	}
	for col, header := range grid.Header {
		if err := set(col+1, 2, header, true); err != nil {
			return err
		}
	}
	for row := range grid.Rows {
		for col := range grid.Header {
			if err := set(col+1, row+3, grid.cell(row, col), true); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(grid.Header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, xlsxColWidth); err != nil {
		return err
	}
	for row := 1; row <= len(grid.Rows)+2; row++ {
		if err := f.SetRowHeight(sheet, row, xlsxRowHeight); err != nil {
			return err
		}
	}
	return nil
}

// sheetName turns a group id into a legal, unique worksheet name:
// "ม.4/1" becomes "ม.4-1".
func sheetName(title string, index int, used map[string]bool) string {
	base := strings.TrimSpace(sheetNameReplacer.Replace(title))
	base = strings.Trim(base, "'")
	if base == "" {
		base = fmt.Sprintf("Sheet%d", index+1)
	}
	base = truncateRunes(base, maxSheetName)

	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
