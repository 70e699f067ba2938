package timetable

import (
	"fmt"
	"sort"
	"strings"
)

// CellKind tags the content of a table cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellLock
	CellPlacement
	CellUnplaceable
)

func (k CellKind) String() string {
	switch k {
	case CellLock:
		return "lock"
	case CellPlacement:
		return "placement"
	case CellUnplaceable:
		return "unplaceable"
	default:
		return "empty"
	}
}

// Placement is a task assigned to a slot in a concrete room.
type Placement struct {
	Code      string
	Teacher   string
	Room      string
	RoomLabel string
}

// Diagnostic explains why no task could be placed at a slot.
type Diagnostic struct {
	PoolEmpty         bool
	TeacherClashRooms []string
	RoomFull          bool
}

// Reason renders the diagnostic as grid text.
func (d Diagnostic) Reason() string {
	if d.PoolEmpty {
		return "no subject"
	}
	var parts []string
	if len(d.TeacherClashRooms) > 0 {
		parts = append(parts, "teacher clash at "+strings.Join(d.TeacherClashRooms, ","))
	}
	if d.RoomFull {
		parts = append(parts, "room full")
	}
	if len(parts) == 0 {
		return "unplaceable"
	}
	return "unplaceable (" + strings.Join(parts, ", ") + ")"
}

// Cell is one grid entry: empty, a lock label, a placement or a diagnostic.
type Cell struct {
	Kind       CellKind
	Label      string
	Placement  *Placement
	Diagnostic *Diagnostic
}

// Filled reports whether the cell is no longer open for placement.
func (c Cell) Filled() bool {
	return c.Kind != CellEmpty
}

// Text renders the cell for display and export.
func (c Cell) Text() string {
	switch c.Kind {
	case CellLock:
		return c.Label
	case CellPlacement:
		return fmt.Sprintf("%s\n%s\n%s", c.Placement.Code, firstName(c.Placement.Teacher), c.Placement.RoomLabel)
	case CellUnplaceable:
		return c.Diagnostic.Reason()
	default:
		return ""
	}
}

func firstName(teacher string) string {
	fields := strings.Fields(teacher)
	if len(fields) == 0 {
		return teacher
	}
	return fields[0]
}

// Table is the finished weekly grid of one group. Consumers must treat it as read-only.
type Table struct {
	Group string
	cells [DaysPerWeek][PeriodsPerDay]Cell
}

// NewTable returns an empty grid for group.
func NewTable(group string) *Table {
	return &Table{Group: group}
}

// At returns the cell at slot. Slots outside the grid read as empty.
func (t *Table) At(slot Slot) Cell {
	if !slot.Valid() {
		return Cell{}
	}
	return t.cells[slot.Day-1][slot.Period-1]
}

func (t *Table) set(slot Slot, cell Cell) bool {
	if !slot.Valid() {
		return false
	}
	t.cells[slot.Day-1][slot.Period-1] = cell
	return true
}

// Placements returns the placed cells keyed by slot.
func (t *Table) Placements() map[Slot]Placement {
	result := make(map[Slot]Placement)
	t.Each(func(slot Slot, cell Cell) {
		if cell.Kind == CellPlacement {
			result[slot] = *cell.Placement
		}
	})
	return result
}

// Each visits every cell day by day, period by period.
func (t *Table) Each(fn func(Slot, Cell)) {
	for _, day := range Days {
		for period := 1; period <= PeriodsPerDay; period++ {
			slot := Slot{Day: day, Period: period}
			fn(slot, t.At(slot))
		}
	}
}

// diagnosticAccumulator collects the reasons candidates were rejected at one slot.
type diagnosticAccumulator struct {
	clashRooms map[string]struct{}
	roomFull   bool
}

func newDiagnosticAccumulator() *diagnosticAccumulator {
	return &diagnosticAccumulator{clashRooms: make(map[string]struct{})}
}

func (a *diagnosticAccumulator) teacherClash(room string) {
	a.clashRooms[ShortRoom(room)] = struct{}{}
}

func (a *diagnosticAccumulator) diagnostic(poolSize int) *Diagnostic {
	if poolSize == 0 {
		return &Diagnostic{PoolEmpty: true}
	}
	rooms := make([]string, 0, len(a.clashRooms))
	for room := range a.clashRooms {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return &Diagnostic{TeacherClashRooms: rooms, RoomFull: a.roomFull}
}
