package timetable

import (
	"context"
	"sort"
)

const (
	lowLoadRedBand  = 15
	highLoadRedBand = 20
	orangeBand      = 10
)

// RedBandSize returns how many leading tasks form the red priority band.
func RedBandSize(totalCredit float64) int {
	if totalCredit <= LowLoadCredits {
		return lowLoadRedBand
	}
	return highLoadRedBand
}

// GroupSchedule is the outcome of scheduling one group.
type GroupSchedule struct {
	Group       string
	TotalCredit float64
	Table       *Table
	Unplaced    []Task
}

// Result holds every group of one scheduling run in scheduling order.
type Result struct {
	Groups []GroupSchedule
}

// Group returns the schedule of the named group.
func (r *Result) Group(group string) (GroupSchedule, bool) {
	for _, gs := range r.Groups {
		if gs.Group == group {
			return gs, true
		}
	}
	return GroupSchedule{}, false
}

// ScheduleAll schedules every group in the given order through a single Run.
func ScheduleAll(groups []string, subjects []Subject, locks []Lock, buildings BuildingMap) *Result {
	result, _ := ScheduleAllContext(context.Background(), groups, subjects, locks, buildings)
	return result
}

// ScheduleAllContext is ScheduleAll checking ctx before each group. An
// interrupted run yields ctx's error and no result, since the tables of the
// groups already scheduled are only final once every group has run.
func ScheduleAllContext(ctx context.Context, groups []string, subjects []Subject, locks []Lock, buildings BuildingMap) (*Result, error) {
	run := NewRun()
	result := &Result{Groups: make([]GroupSchedule, 0, len(groups))}
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Groups = append(result.Groups, ScheduleGroupDetail(run, group, subjects, locks, buildings))
	}
	return result, nil
}

// ScheduleGroup fills one group's weekly table, consuming teachers and rooms
// from run. It returns the table and the tasks left unplaced once every slot
// has been tried.
func ScheduleGroup(run *Run, group string, subjects []Subject, locks []Lock, buildings BuildingMap) (*Table, []Task) {
	gs := ScheduleGroupDetail(run, group, subjects, locks, buildings)
	return gs.Table, gs.Unplaced
}

// ScheduleGroupDetail is ScheduleGroup returning the group's credit load as well.
func ScheduleGroupDetail(run *Run, group string, subjects []Subject, locks []Lock, buildings BuildingMap) GroupSchedule {
	table := NewTable(group)
	ApplyLocks(run, table, locks, group)

	totalCredit := TotalCredit(SubjectsForGroup(subjects, group))
	pool := candidatePool(GenerateTasks(subjects, group), RedBandSize(totalCredit), group)

	for _, slot := range SequenceSlots(totalCredit) {
		if table.At(slot).Filled() {
			continue
		}
		var (
			acc    = newDiagnosticAccumulator()
			placed bool
		)
		for i := range pool {
			placement, ok := tryPlace(run, pool[i], slot, acc, buildings)
			if !ok {
				continue
			}
			table.set(slot, Cell{Kind: CellPlacement, Placement: placement})
			pool = append(pool[:i], pool[i+1:]...)
			placed = true
			break
		}
		if !placed {
			table.set(slot, Cell{Kind: CellUnplaceable, Diagnostic: acc.diagnostic(len(pool))})
		}
	}

	return GroupSchedule{
		Group:       group,
		TotalCredit: totalCredit,
		Table:       table,
		Unplaced:    pool,
	}
}

// tryPlace places task at slot in its first free room. A room already in use
// flags the slot as "room full" even when a later room of the task is free.
func tryPlace(run *Run, task Task, slot Slot, acc *diagnosticAccumulator, buildings BuildingMap) (*Placement, bool) {
	if room, busy := run.TeacherRoom(task.Teacher, slot); busy {
		acc.teacherClash(room)
		return nil, false
	}
	for _, room := range task.ActualRooms {
		if run.Occupied(slot, room) {
			acc.roomFull = true
			continue
		}
		run.reserve(slot, task.Teacher, room)
		return &Placement{
			Code:      task.Code,
			Teacher:   task.Teacher,
			Room:      room,
			RoomLabel: ConvertRoomLabel(room, buildings),
		}, true
	}
	return nil, false
}

// candidatePool splits tasks into red, orange and yellow bands by position and
// orders each band by building locality and descending weight.
func candidatePool(tasks []Task, redN int, group string) []Task {
	red, orange, yellow := splitBands(tasks, redN)
	pool := make([]Task, 0, len(tasks))
	for _, band := range [][]Task{red, orange, yellow} {
		pool = append(pool, sortBand(band, group)...)
	}
	return pool
}

func splitBands(tasks []Task, redN int) (red, orange, yellow []Task) {
	bound := func(n int) int {
		if n > len(tasks) {
			return len(tasks)
		}
		return n
	}
	redEnd := bound(redN)
	orangeEnd := bound(redN + orangeBand)
	return tasks[:redEnd], tasks[redEnd:orangeEnd], tasks[orangeEnd:]
}

type bandKey struct {
	building string
	weight   float64
	code     string
}

func (k bandKey) less(o bandKey) bool {
	if k.building != o.building {
		return k.building < o.building
	}
	if k.weight != o.weight {
		return k.weight > o.weight
	}
	return k.code < o.code
}

// sortBand orders a band by (building of the scheduled group, -weight, code).
func sortBand(band []Task, group string) []Task {
	sorted := make([]Task, len(band))
	copy(sorted, band)
	building := BuildingOf(group)
	key := func(t Task) bandKey {
		return bandKey{building: building, weight: t.Weight, code: t.Code}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]).less(key(sorted[j]))
	})
	return sorted
}
