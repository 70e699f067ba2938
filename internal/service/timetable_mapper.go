package service

import (
	"strconv"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/timetable"
	"github.com/noah-isme/sma-timetable/pkg/export"
)

func toGroupTimetable(gs timetable.GroupSchedule) dto.GroupTimetable {
	out := dto.GroupTimetable{
		Group:       gs.Group,
		TotalCredit: gs.TotalCredit,
		Cells:       make([]dto.TimetableCell, 0, timetable.DaysPerWeek*timetable.PeriodsPerDay),
		Unplaced:    make([]dto.UnplacedTask, 0, len(gs.Unplaced)),
	}
	gs.Table.Each(func(slot timetable.Slot, cell timetable.Cell) {
		item := dto.TimetableCell{
			Slot:   slot.String(),
			Day:    slot.Day.String(),
			Period: slot.Period,
			Kind:   cell.Kind.String(),
			Label:  cell.Label,
		}
		switch cell.Kind {
		case timetable.CellPlacement:
			out.Placed++
			item.Code = cell.Placement.Code
			item.Teacher = cell.Placement.Teacher
			item.Room = cell.Placement.Room
			item.RoomLabel = cell.Placement.RoomLabel
		case timetable.CellUnplaceable:
			item.Reason = cell.Diagnostic.Reason()
		}
		out.Cells = append(out.Cells, item)
	})
	for _, task := range gs.Unplaced {
		out.Unplaced = append(out.Unplaced, dto.UnplacedTask{Code: task.Code, Teacher: task.Teacher, Weight: task.Weight})
	}
	return out
}

// toGrid lays a table out as days by periods for file export.
func toGrid(gs timetable.GroupSchedule) export.Grid {
	header := make([]string, 0, timetable.PeriodsPerDay+1)
	header = append(header, "Day")
	for period := 1; period <= timetable.PeriodsPerDay; period++ {
		header = append(header, strconv.Itoa(period))
	}
	rows := make([][]string, 0, timetable.DaysPerWeek)
	for _, day := range timetable.Days {
		row := make([]string, 0, timetable.PeriodsPerDay+1)
		row = append(row, day.String())
		for period := 1; period <= timetable.PeriodsPerDay; period++ {
			row = append(row, gs.Table.At(timetable.Slot{Day: day, Period: period}).Text())
		}
		rows = append(rows, row)
	}
	return export.Grid{
		Title:    gs.Group,
		Subtitle: "Total credit: " + strconv.FormatFloat(gs.TotalCredit, 'g', -1, 64),
		Header:   header,
		Rows:     rows,
	}
}
