package timetable

// Run owns the conflict state shared by every group scheduled in one pass.
//
// Groups must be scheduled sequentially through the same Run, in a fixed
// order: each group only sees the teachers and rooms left over by the groups
// before it. Scheduling each group with a fresh Run silently produces
// school-wide double bookings. A Run whose pass was interrupted holds a
// partial state and must not be reused.
type Run struct {
	slotsUsed    map[Slot]map[string]struct{}
	teacherSlots map[string]map[Slot]string
}

// NewRun returns an empty conflict tracker.
func NewRun() *Run {
	return &Run{
		slotsUsed:    make(map[Slot]map[string]struct{}),
		teacherSlots: make(map[string]map[Slot]string),
	}
}

// Occupied reports whether the occupant id (room, teacher or group) is
// already consumed at slot.
func (r *Run) Occupied(slot Slot, id string) bool {
	_, ok := r.slotsUsed[slot][id]
	return ok
}

// TeacherRoom returns the room the teacher already teaches in at slot.
func (r *Run) TeacherRoom(teacher string, slot Slot) (string, bool) {
	room, ok := r.teacherSlots[teacher][slot]
	return room, ok
}

// TeacherLoad returns the number of slots the teacher has been placed in.
func (r *Run) TeacherLoad(teacher string) int {
	return len(r.teacherSlots[teacher])
}

func (r *Run) occupy(slot Slot, ids ...string) {
	used, ok := r.slotsUsed[slot]
	if !ok {
		used = make(map[string]struct{})
		r.slotsUsed[slot] = used
	}
	for _, id := range ids {
		used[id] = struct{}{}
	}
}

func (r *Run) reserve(slot Slot, teacher, room string) {
	r.occupy(slot, teacher, room)
	slots, ok := r.teacherSlots[teacher]
	if !ok {
		slots = make(map[Slot]string)
		r.teacherSlots[teacher] = slots
	}
	slots[slot] = room
}
