// Package timetable assigns credit-hour tasks to a weekly grid for every student group
// while keeping teachers and rooms free of school-wide double bookings.
package timetable

import (
	"fmt"
	"strings"
)

const (
	// DaysPerWeek is the number of teaching days in the weekly grid.
	DaysPerWeek = 5
	// PeriodsPerDay is the number of periods per teaching day.
	PeriodsPerDay = 11
	// LowLoadCredits is the weekly credit threshold separating low and high load groups.
	LowLoadCredits = 18.0
)

// Day identifies a teaching day. The zero value is invalid.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Days lists the teaching days in grid order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayCodes = map[Day]string{
	Monday:    "M",
	Tuesday:   "T",
	Wednesday: "W",
	Thursday:  "TH",
	Friday:    "F",
}

var dayNames = map[Day]string{
	Monday:    "Mon",
	Tuesday:   "Tue",
	Wednesday: "Wed",
	Thursday:  "Thu",
	Friday:    "Fri",
}

var dayTokens = map[string]Day{
	"M":         Monday,
	"MON":       Monday,
	"MONDAY":    Monday,
	"จันทร์":    Monday,
	"T":         Tuesday,
	"TUE":       Tuesday,
	"TUESDAY":   Tuesday,
	"อังคาร":    Tuesday,
	"W":         Wednesday,
	"WED":       Wednesday,
	"WEDNESDAY": Wednesday,
	"พุธ":       Wednesday,
	"TH":        Thursday,
	"THU":       Thursday,
	"THURSDAY":  Thursday,
	"พฤหัสบดี":  Thursday,
	"F":         Friday,
	"FRI":       Friday,
	"FRIDAY":    Friday,
	"ศุกร์":     Friday,
}

// ParseDay resolves a day token. Thai day names, English names and the
// single-letter day codes are accepted.
func ParseDay(raw string) (Day, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if day, ok := dayTokens[token]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("unknown day %q", raw)
}

// Valid reports whether d is one of the five teaching days.
func (d Day) Valid() bool {
	return d >= Monday && d <= Friday
}

// Code returns the compact day code used in slot identifiers.
func (d Day) Code() string {
	return dayCodes[d]
}

// String returns the short English day name.
func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Day(%d)", int(d))
}

// Slot is one (day, period) cell of the weekly grid.
type Slot struct {
	Day    Day
	Period int
}

// Valid reports whether the slot lies inside the weekly grid.
func (s Slot) Valid() bool {
	return s.Day.Valid() && s.Period >= 1 && s.Period <= PeriodsPerDay
}

// String renders the slot as day code followed by period, e.g. "TH4".
func (s Slot) String() string {
	return fmt.Sprintf("%s%d", s.Day.Code(), s.Period)
}

// SequenceSlots returns the order in which a group's open slots are filled.
// Core periods are spread across the week before overflow periods are used;
// groups above LowLoadCredits take periods 6 and 7 together.
func SequenceSlots(totalCredit float64) []Slot {
	order := make([]Slot, 0, DaysPerWeek*PeriodsPerDay)
	dayMajor := func(periods ...int) {
		for _, day := range Days {
			for _, period := range periods {
				order = append(order, Slot{Day: day, Period: period})
			}
		}
	}
	periodMajor := func(periods ...int) {
		for _, period := range periods {
			for _, day := range Days {
				order = append(order, Slot{Day: day, Period: period})
			}
		}
	}

	dayMajor(2, 3)
	if totalCredit <= LowLoadCredits {
		periodMajor(6, 7)
	} else {
		dayMajor(6, 7)
	}
	periodMajor(4, 1)
	periodMajor(8, 9, 10, 11)
	return order
}
