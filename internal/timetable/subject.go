package timetable

import "math"

// Subject is one curriculum entry for one student group.
type Subject struct {
	Code        string   `json:"code" yaml:"code"`
	Credit      float64  `json:"credit" yaml:"credit"`
	Teacher     string   `json:"teacher" yaml:"teacher"`
	Weight      float64  `json:"weight" yaml:"weight"`
	Group       string   `json:"group" yaml:"group"`
	ActualRooms []string `json:"actual_rooms" yaml:"actual_rooms"`
}

// Task is a single half-credit-hour scheduling unit copied from a Subject.
type Task struct {
	Subject
}

// TaskCount returns how many tasks a subject expands into.
func (s Subject) TaskCount() int {
	n := int(math.Floor(s.Credit * 2))
	if n < 1 {
		return 1
	}
	return n
}

// SubjectsForGroup filters subjects belonging to group, keeping input order.
func SubjectsForGroup(subjects []Subject, group string) []Subject {
	var result []Subject
	for _, subject := range subjects {
		if subject.Group == group {
			result = append(result, subject)
		}
	}
	return result
}

// TotalCredit sums the weekly credit of the provided subjects.
func TotalCredit(subjects []Subject) float64 {
	var total float64
	for _, subject := range subjects {
		total += subject.Credit
	}
	return total
}

// GenerateTasks expands the group's subjects into tasks in input order.
func GenerateTasks(subjects []Subject, group string) []Task {
	var tasks []Task
	for _, subject := range subjects {
		if subject.Group != group {
			continue
		}
		for i := 0; i < subject.TaskCount(); i++ {
			tasks = append(tasks, Task{Subject: subject.clone()})
		}
	}
	return tasks
}

func (s Subject) clone() Subject {
	if s.ActualRooms != nil {
		rooms := make([]string, len(s.ActualRooms))
		copy(rooms, s.ActualRooms)
		s.ActualRooms = rooms
	}
	return s
}
