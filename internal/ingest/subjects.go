package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/noah-isme/sma-timetable/internal/timetable"
)

// Header keywords, Thai first, matched case-insensitively as substrings.
var (
	codeKeys    = []string{"รหัสวิชา", "code"}
	creditKeys  = []string{"หน่วยกิต", "credit"}
	teacherKeys = []string{"ครู", "teacher"}
	weightKeys  = []string{"น้ำหนัก", "weight"}
	groupKeys   = []string{"ห้องนักเรียน", "group"}
	summaryKeys = []string{"สรุปห้อง", "actual room"}
)

var roomCellSeparator = regexp.MustCompile(`[;\n]+`)

// ErrMissingColumn is returned when a required header cannot be matched.
var ErrMissingColumn = errors.New("required column not found")

// SubjectSheet is the parsed content of a subject sheet.
type SubjectSheet struct {
	Subjects []timetable.Subject
	// Skipped collects rows that could not be read; they do not abort the import.
	Skipped *multierror.Error
}

type subjectColumns struct {
	code, credit, teacher, weight, group, summary int
}

// ParseSubjects reads a subject sheet. A row yields one subject per student
// group listed in its group column; actual rooms are read from the summary
// column and every column after it.
func ParseSubjects(r io.Reader) (*SubjectSheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read subject header: %w", err)
	}
	cols, err := matchSubjectColumns(header)
	if err != nil {
		return nil, err
	}

	sheet := &SubjectSheet{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			sheet.Skipped = multierror.Append(sheet.Skipped, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		subjects, err := parseSubjectRow(record, cols)
		if err != nil {
			sheet.Skipped = multierror.Append(sheet.Skipped, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		sheet.Subjects = append(sheet.Subjects, subjects...)
	}
	return sheet, nil
}

func matchSubjectColumns(header []string) (subjectColumns, error) {
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	cols := subjectColumns{
		code:    findColumn(header, codeKeys),
		credit:  findColumn(header, creditKeys),
		teacher: findColumn(header, teacherKeys),
		weight:  findColumn(header, weightKeys),
		group:   findColumn(header, groupKeys),
		summary: findColumn(header, summaryKeys),
	}
	required := map[string]int{
		"code":    cols.code,
		"credit":  cols.credit,
		"teacher": cols.teacher,
		"group":   cols.group,
		"summary": cols.summary,
	}
	var missing []string
	for name, idx := range required {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func findColumn(header []string, keys []string) int {
	for i, name := range header {
		lower := strings.ToLower(name)
		for _, key := range keys {
			if strings.Contains(lower, strings.ToLower(key)) {
				return i
			}
		}
	}
	return -1
}

func parseSubjectRow(record []string, cols subjectColumns) ([]timetable.Subject, error) {
	code := cell(record, cols.code)
	if code == "" {
		return nil, nil
	}
	credit, err := parseNumber(cell(record, cols.credit))
	if err != nil {
		return nil, fmt.Errorf("subject %s: credit: %w", code, err)
	}
	weight, err := parseNumber(cell(record, cols.weight))
	if err != nil {
		return nil, fmt.Errorf("subject %s: weight: %w", code, err)
	}
	groups, err := ExpandRooms(cell(record, cols.group))
	if err != nil {
		return nil, fmt.Errorf("subject %s: groups: %w", code, err)
	}
	if len(groups) == 0 {
		return nil, nil
	}
	rooms, err := actualRooms(record, cols.summary)
	if err != nil {
		return nil, fmt.Errorf("subject %s: rooms: %w", code, err)
	}

	subjects := make([]timetable.Subject, 0, len(groups))
	for _, group := range groups {
		subjects = append(subjects, timetable.Subject{
			Code:        code,
			Credit:      credit,
			Teacher:     cell(record, cols.teacher),
			Weight:      weight,
			Group:       group,
			ActualRooms: append([]string(nil), rooms...),
		})
	}
	return subjects, nil
}

func actualRooms(record []string, from int) ([]string, error) {
	var rooms []string
	for i := from; i < len(record); i++ {
		value := cell(record, i)
		if value == "" || value == "-" {
			continue
		}
		for _, part := range roomCellSeparator.Split(value, -1) {
			expanded, err := ExpandRooms(part)
			if err != nil {
				return nil, err
			}
			rooms = append(rooms, expanded...)
		}
	}
	return NormalizeRooms(rooms), nil
}

// NormalizeRooms trims, deduplicates and orders actual rooms the way the
// engine expects them: first occurrence wins, numeric-aware order.
func NormalizeRooms(rooms []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(rooms))
	for _, room := range rooms {
		room = strings.TrimSpace(room)
		if _, ok := seen[room]; ok || room == "" {
			continue
		}
		seen[room] = struct{}{}
		out = append(out, room)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return timetable.LessRoom(out[i], out[j])
	})
	return out
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	value := strings.TrimSpace(record[idx])
	if strings.EqualFold(value, "nan") {
		return ""
	}
	return value
}

func parseNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
