package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 277.0 // A4 landscape minus margins
	firstColumn = 22.0
	lineHeight  = 4.0
)

// PDFExporter renders one landscape page per grid.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath points at a UTF-8 TrueType
// font able to draw Thai; without it the core Arial font is used.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Render creates the PDF document.
func (e *PDFExporter) Render(grids []Grid) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("pdf requires at least one grid")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)

	family := "Arial"
	translate := func(s string) string { return s }
	if e.fontPath != "" {
		family = "Body"
		pdf.AddUTF8Font(family, "", e.fontPath)
		pdf.AddUTF8Font(family, "B", e.fontPath)
	} else {
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	for _, grid := range grids {
		if len(grid.Header) == 0 {
			return nil, fmt.Errorf("grid %q has no header", grid.Title)
		}
		pdf.AddPage()
		if grid.Title != "" {
			pdf.SetFont(family, "B", 14)
			pdf.CellFormat(0, 10, translate(grid.Title), "", 1, "C", false, 0, "")
		}
		if grid.Subtitle != "" {
			pdf.SetFont(family, "", 9)
			pdf.CellFormat(0, 5, translate(grid.Subtitle), "", 1, "C", false, 0, "")
		}
		if grid.Title != "" || grid.Subtitle != "" {
			pdf.Ln(2)
		}

		widths := columnWidths(len(grid.Header))
		pdf.SetFont(family, "B", 9)
		for i, header := range grid.Header {
			pdf.CellFormat(widths[i], 7, translate(header), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(family, "", 7)
		for row := range grid.Rows {
			lines := make([][]string, len(grid.Header))
			height := 1
			for col := range grid.Header {
				lines[col] = strings.Split(translate(grid.cell(row, col)), "\n")
				if len(lines[col]) > height {
					height = len(lines[col])
				}
			}
			rowHeight := float64(height)*lineHeight + 2

			x, y := pdf.GetXY()
			for col, cellLines := range lines {
				pdf.Rect(x, y, widths[col], rowHeight, "D")
				for i, line := range cellLines {
					pdf.SetXY(x, y+1+float64(i)*lineHeight)
					pdf.CellFormat(widths[col], lineHeight, line, "", 0, "C", false, 0, "")
				}
				x += widths[col]
			}
			pdf.SetXY(10, y+rowHeight)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns int) []float64 {
	widths := make([]float64, columns)
	if columns == 1 {
		widths[0] = pageWidth
		return widths
	}
	widths[0] = firstColumn
	rest := (pageWidth - firstColumn) / float64(columns-1)
	for i := 1; i < columns; i++ {
		widths[i] = rest
	}
	return widths
}
