package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-timetable/internal/timetable"
)

// ParseBuildingMap reads a two column "number,letter" sheet. Rows whose number
// does not parse (a header row, notes) are ignored.
func ParseBuildingMap(r io.Reader) (timetable.BuildingMap, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	buildings := timetable.BuildingMap{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read building sheet: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		letter := strings.ToUpper(strings.TrimSpace(record[1]))
		if letter == "" {
			continue
		}
		buildings[letter] = number
	}
	return buildings, nil
}
