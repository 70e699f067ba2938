package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticReason(t *testing.T) {
	acc := newDiagnosticAccumulator()
	acc.teacherClash("ม.2/4")
	acc.teacherClash("A1")
	acc.teacherClash("A1")
	acc.roomFull = true

	assert.Equal(t, "unplaceable (teacher clash at A1,ม.24, room full)", acc.diagnostic(3).Reason())
	assert.Equal(t, "no subject", acc.diagnostic(0).Reason())
	assert.Equal(t, "unplaceable", newDiagnosticAccumulator().diagnostic(1).Reason())
}

func TestTableOutOfGrid(t *testing.T) {
	table := NewTable("G1")

	assert.False(t, table.set(Slot{Day: Friday, Period: 0}, Cell{Kind: CellLock, Label: "x"}))
	assert.Equal(t, Cell{}, table.At(Slot{Day: 6, Period: 1}))
	assert.False(t, table.At(Slot{Day: Monday, Period: 1}).Filled())
	assert.Empty(t, table.Placements())
}
