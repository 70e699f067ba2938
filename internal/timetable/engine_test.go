package timetable

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTasksCounts(t *testing.T) {
	subjects := []Subject{
		{Code: "M101", Credit: 2, Group: "G1"},
		{Code: "S101", Credit: 1.5, Group: "G1"},
		{Code: "A101", Credit: 0, Group: "G1"},
		{Code: "P101", Credit: 0.4, Group: "G1"},
		{Code: "X101", Credit: 3, Group: "G2"},
	}

	tasks := GenerateTasks(subjects, "G1")
	counts := map[string]int{}
	for _, task := range tasks {
		counts[task.Code]++
	}

	assert.Equal(t, map[string]int{"M101": 4, "S101": 3, "A101": 1, "P101": 1}, counts)
	assert.Equal(t, "M101", tasks[0].Code, "input order is kept")
	assert.Equal(t, "P101", tasks[len(tasks)-1].Code)
}

func TestGenerateTasksCopiesRooms(t *testing.T) {
	subjects := []Subject{{Code: "M101", Credit: 1, Group: "G1", ActualRooms: []string{"A1"}}}

	tasks := GenerateTasks(subjects, "G1")
	tasks[0].ActualRooms[0] = "Z9"

	assert.Equal(t, "A1", subjects[0].ActualRooms[0])
	assert.Equal(t, "A1", tasks[1].ActualRooms[0])
}

func TestRedBandSize(t *testing.T) {
	assert.Equal(t, 15, RedBandSize(18))
	assert.Equal(t, 20, RedBandSize(19))
	assert.Equal(t, 20, RedBandSize(18.5))
	assert.Equal(t, 15, RedBandSize(0))
}

func TestScheduleGroupSingleSubject(t *testing.T) {
	subjects := []Subject{{Code: "M101", Credit: 2, Teacher: "T1", Weight: 5, Group: "G1", ActualRooms: []string{"A1"}}}

	table, unplaced := ScheduleGroup(NewRun(), "G1", subjects, nil, nil)

	assert.Empty(t, unplaced)
	sequence := SequenceSlots(2)
	for _, slot := range sequence[:4] {
		cell := table.At(slot)
		require.Equal(t, CellPlacement, cell.Kind, slot.String())
		assert.Equal(t, Placement{Code: "M101", Teacher: "T1", Room: "A1", RoomLabel: "A1"}, *cell.Placement)
	}
	for _, slot := range sequence[4:] {
		cell := table.At(slot)
		require.Equal(t, CellUnplaceable, cell.Kind, slot.String())
		assert.Equal(t, "no subject", cell.Text())
	}
}

func TestScheduleGroupSharedTeacherAcrossGroups(t *testing.T) {
	subjects := []Subject{
		{Code: "M101", Credit: 0.5, Teacher: "T1", Weight: 1, Group: "G1", ActualRooms: []string{"R1"}},
		{Code: "M101", Credit: 0.5, Teacher: "T1", Weight: 1, Group: "G2", ActualRooms: []string{"R2"}},
	}
	run := NewRun()
	m2 := Slot{Day: Monday, Period: 2}
	m3 := Slot{Day: Monday, Period: 3}

	first, unplacedFirst := ScheduleGroup(run, "G1", subjects, nil, nil)
	second, unplacedSecond := ScheduleGroup(run, "G2", subjects, nil, nil)

	assert.Empty(t, unplacedFirst)
	assert.Empty(t, unplacedSecond)
	require.Equal(t, CellPlacement, first.At(m2).Kind)
	assert.Equal(t, "R1", first.At(m2).Placement.Room)

	require.Equal(t, CellUnplaceable, second.At(m2).Kind)
	assert.Equal(t, []string{"R1"}, second.At(m2).Diagnostic.TeacherClashRooms)
	assert.Equal(t, "unplaceable (teacher clash at R1)", second.At(m2).Text())
	require.Equal(t, CellPlacement, second.At(m3).Kind)
	assert.Equal(t, "R2", second.At(m3).Placement.Room)

	room, ok := run.TeacherRoom("T1", m3)
	require.True(t, ok)
	assert.Equal(t, "R2", room)
	assert.Equal(t, 2, run.TeacherLoad("T1"))
}

func TestScheduleGroupTeacherExhaustedIsReportedUnplaced(t *testing.T) {
	// T1 teaches G1 in every slot, so G2's task can never be placed.
	subjects := []Subject{
		{Code: "BIG", Credit: 27.5, Teacher: "T1", Weight: 1, Group: "G1", ActualRooms: []string{"R1"}},
		{Code: "M101", Credit: 0.5, Teacher: "T1", Weight: 1, Group: "G2", ActualRooms: []string{"R2"}},
	}
	result := ScheduleAll([]string{"G1", "G2"}, subjects, nil, nil)

	g1, _ := result.Group("G1")
	assert.Empty(t, g1.Unplaced)
	g2, ok := result.Group("G2")
	require.True(t, ok)
	require.Len(t, g2.Unplaced, 1)
	assert.Equal(t, "M101", g2.Unplaced[0].Code)
	g2.Table.Each(func(slot Slot, cell Cell) {
		assert.Equal(t, CellUnplaceable, cell.Kind, slot.String())
		assert.Contains(t, cell.Text(), "teacher clash at R1", slot.String())
	})
}

func TestScheduleGroupRoomFull(t *testing.T) {
	subjects := []Subject{
		{Code: "LAB1", Credit: 0.5, Teacher: "T1", Weight: 1, Group: "G1", ActualRooms: []string{"LAB"}},
		{Code: "LAB2", Credit: 0.5, Teacher: "T2", Weight: 1, Group: "G2", ActualRooms: []string{"LAB"}},
		{Code: "LAB3", Credit: 0.5, Teacher: "T3", Weight: 1, Group: "G3", ActualRooms: []string{"LAB", "R3"}},
	}
	m2 := Slot{Day: Monday, Period: 2}
	m3 := Slot{Day: Monday, Period: 3}

	result := ScheduleAll([]string{"G1", "G2", "G3"}, subjects, nil, nil)

	g2, _ := result.Group("G2")
	require.Equal(t, CellUnplaceable, g2.Table.At(m2).Kind)
	assert.Equal(t, "unplaceable (room full)", g2.Table.At(m2).Text())
	require.Equal(t, CellPlacement, g2.Table.At(m3).Kind)
	assert.Equal(t, "LAB", g2.Table.At(m3).Placement.Room)

	// The first room being taken does not block a later free room.
	g3, _ := result.Group("G3")
	require.Equal(t, CellPlacement, g3.Table.At(m2).Kind)
	assert.Equal(t, "R3", g3.Table.At(m2).Placement.Room)
}

func TestScheduleGroupLockPrecedence(t *testing.T) {
	subjects := []Subject{
		{Code: "M101", Credit: 2, Teacher: "T1", Weight: 9, Group: "G1", ActualRooms: []string{"A1"}},
		{Code: "M201", Credit: 1, Teacher: "T2", Weight: 1, Group: "G2", ActualRooms: []string{"G1"}},
	}
	locks := []Lock{
		{Name: "Assembly", Groups: []string{AllGroups}, Day: Monday, Period: 2},
		{Name: "Homeroom", Groups: []string{"G1"}, Day: Monday, Period: 3},
		{Name: "Broken", Groups: []string{AllGroups}, Day: Monday, Period: 12},
	}
	m2 := Slot{Day: Monday, Period: 2}
	m3 := Slot{Day: Monday, Period: 3}

	run := NewRun()
	g1, unplaced := ScheduleGroup(run, "G1", subjects, locks, nil)
	require.Empty(t, unplaced)
	assert.Equal(t, Cell{Kind: CellLock, Label: "Assembly"}, g1.At(m2))
	assert.Equal(t, Cell{Kind: CellLock, Label: "Homeroom"}, g1.At(m3))
	assert.Equal(t, CellPlacement, g1.At(Slot{Day: Tuesday, Period: 2}).Kind)
	assert.True(t, run.Occupied(m3, "G1"))

	// A lock is recorded under the group id, which also blocks a room of the same name.
	g2, _ := ScheduleGroup(run, "G2", subjects, locks, nil)
	assert.Equal(t, Cell{Kind: CellLock, Label: "Assembly"}, g2.At(m2))
	require.Equal(t, CellUnplaceable, g2.At(m3).Kind)
	assert.True(t, g2.At(m3).Diagnostic.RoomFull)
}

func TestScheduleGroupBandsAreFixedBeforeSorting(t *testing.T) {
	// 15 low-weight tasks fill the red band; the heavy subject lands in orange.
	subjects := []Subject{
		{Code: "LOW", Credit: 7.5, Teacher: "T1", Weight: 1, Group: "G1", ActualRooms: []string{"R1"}},
		{Code: "HEAVY", Credit: 0.5, Teacher: "T2", Weight: 10, Group: "G1", ActualRooms: []string{"R1"}},
	}
	table, unplaced := ScheduleGroup(NewRun(), "G1", subjects, nil, nil)
	require.Empty(t, unplaced)

	sequence := SequenceSlots(8)
	for _, slot := range sequence[:15] {
		assert.Equal(t, "LOW", table.At(slot).Placement.Code, slot.String())
	}
	assert.Equal(t, "HEAVY", table.At(sequence[15]).Placement.Code)
}

func TestScheduleGroupWeightOrdersWithinBand(t *testing.T) {
	subjects := []Subject{
		{Code: "B", Credit: 0.5, Teacher: "T1", Weight: 1, Group: "G1", ActualRooms: []string{"R1"}},
		{Code: "C", Credit: 0.5, Teacher: "T2", Weight: 5, Group: "G1", ActualRooms: []string{"R1"}},
		{Code: "A", Credit: 0.5, Teacher: "T3", Weight: 1, Group: "G1", ActualRooms: []string{"R1"}},
	}
	table, _ := ScheduleGroup(NewRun(), "G1", subjects, nil, nil)
	sequence := SequenceSlots(1.5)

	assert.Equal(t, "C", table.At(sequence[0]).Placement.Code)
	assert.Equal(t, "A", table.At(sequence[1]).Placement.Code)
	assert.Equal(t, "B", table.At(sequence[2]).Placement.Code)
}

func TestScheduleGroupWithoutRoomsNeverPlaces(t *testing.T) {
	subjects := []Subject{{Code: "M101", Credit: 0.5, Teacher: "T1", Group: "G1"}}

	table, unplaced := ScheduleGroup(NewRun(), "G1", subjects, nil, nil)

	require.Len(t, unplaced, 1)
	assert.Equal(t, "unplaceable", table.At(Slot{Day: Monday, Period: 2}).Text())
}

func TestScheduleGroupRelabelsRoomsForDisplay(t *testing.T) {
	subjects := []Subject{{Code: "M101", Credit: 0.5, Teacher: "Somchai Jaidee", Group: "G1", ActualRooms: []string{"B12"}}}
	run := NewRun()
	m2 := Slot{Day: Monday, Period: 2}

	table, _ := ScheduleGroup(run, "G1", subjects, nil, BuildingMap{"B": 3})

	cell := table.At(m2)
	require.Equal(t, CellPlacement, cell.Kind)
	assert.Equal(t, "B12", cell.Placement.Room)
	assert.Equal(t, "312", cell.Placement.RoomLabel)
	assert.Equal(t, "M101\nSomchai\n312", cell.Text())
	assert.True(t, run.Occupied(m2, "B12"), "tracker keeps the raw room id")
}

func TestScheduleAllInvariants(t *testing.T) {
	var subjects []Subject
	teachers := []string{"T1", "T2", "T3", "T4"}
	rooms := [][]string{{"A1"}, {"A1", "A2"}, {"LAB"}, {"B1", "B2", "B3"}}
	for g := 1; g <= 6; g++ {
		group := fmt.Sprintf("ม.4/%d", g)
		for s := 0; s < 6; s++ {
			subjects = append(subjects, Subject{
				Code:        fmt.Sprintf("S%d", s),
				Credit:      float64(1 + (g+s)%3),
				Teacher:     teachers[(g+s)%len(teachers)],
				Weight:      float64(s % 4),
				Group:       group,
				ActualRooms: rooms[(g*s)%len(rooms)],
			})
		}
	}
	locks := []Lock{{Name: "Assembly", Groups: []string{AllGroups}, Day: Friday, Period: 2}}
	groups := Groups(subjects)

	result := ScheduleAll(groups, subjects, locks, nil)
	require.Len(t, result.Groups, len(groups))

	teacherAt := map[Slot]map[string]string{}
	roomAt := map[Slot]map[string]string{}
	for _, gs := range result.Groups {
		placed := 0
		gs.Table.Each(func(slot Slot, cell Cell) {
			if slot == (Slot{Day: Friday, Period: 2}) {
				assert.Equal(t, CellLock, cell.Kind)
			}
			if cell.Kind != CellPlacement {
				return
			}
			placed++
			if teacherAt[slot] == nil {
				teacherAt[slot] = map[string]string{}
				roomAt[slot] = map[string]string{}
			}
			other, clash := teacherAt[slot][cell.Placement.Teacher]
			assert.False(t, clash, "teacher %s double booked at %s by %s and %s", cell.Placement.Teacher, slot, other, gs.Group)
			other, clash = roomAt[slot][cell.Placement.Room]
			assert.False(t, clash, "room %s double booked at %s by %s and %s", cell.Placement.Room, slot, other, gs.Group)
			teacherAt[slot][cell.Placement.Teacher] = gs.Group
			roomAt[slot][cell.Placement.Room] = gs.Group
		})
		total := len(GenerateTasks(subjects, gs.Group))
		assert.Equal(t, total, placed+len(gs.Unplaced), gs.Group)
	}
}

func TestScheduleAllContextStopsBetweenGroups(t *testing.T) {
	subjects := []Subject{
		{Code: "M101", Credit: 1, Teacher: "T1", Group: "G1", ActualRooms: []string{"A1"}},
		{Code: "M101", Credit: 1, Teacher: "T1", Group: "G2", ActualRooms: []string{"A1"}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := ScheduleAllContext(ctx, []string{"G1", "G2"}, subjects, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)

	result, err = ScheduleAllContext(context.Background(), []string{"G1", "G2"}, subjects, nil, nil)
	require.NoError(t, err)
	assert.Len(t, result.Groups, 2)
}
