package timetable

// AllGroups is the lock group sentinel matching every group.
const AllGroups = "ALL"

// Lock is a fixed reservation applied before any task placement.
type Lock struct {
	Name   string
	Groups []string
	Day    Day
	Period int
}

// Slot returns the slot reserved by the lock.
func (l Lock) Slot() Slot {
	return Slot{Day: l.Day, Period: l.Period}
}

// Matches reports whether the lock applies to group.
func (l Lock) Matches(group string) bool {
	for _, g := range l.Groups {
		if g == AllGroups || g == group {
			return true
		}
	}
	return false
}

// ApplyLocks writes the matching locks into table and marks their slots as
// used by the group itself. Locks outside the weekly grid are ignored.
func ApplyLocks(run *Run, table *Table, locks []Lock, group string) int {
	applied := 0
	for _, lock := range locks {
		if !lock.Matches(group) {
			continue
		}
		slot := lock.Slot()
		if !table.set(slot, Cell{Kind: CellLock, Label: lock.Name}) {
			continue
		}
		run.occupy(slot, group)
		applied++
	}
	return applied
}
