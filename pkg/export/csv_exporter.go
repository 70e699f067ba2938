package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders grids into a single CSV document.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes each grid as a title line, the header and its rows, with an
// empty line between grids.
func (e *CSVExporter) Render(grids []Grid) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("csv requires at least one grid")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	for i, grid := range grids {
		if len(grid.Header) == 0 {
			return nil, fmt.Errorf("grid %q has no header", grid.Title)
		}
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return nil, fmt.Errorf("write csv separator: %w", err)
			}
		}
		if err := writer.Write([]string{grid.Title}); err != nil {
			return nil, fmt.Errorf("write csv title: %w", err)
		}
		if err := writer.Write(grid.Header); err != nil {
			return nil, fmt.Errorf("write csv headers: %w", err)
		}
		for row := range grid.Rows {
			record := make([]string, len(grid.Header))
			for col := range grid.Header {
				record[col] = grid.cell(row, col)
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
