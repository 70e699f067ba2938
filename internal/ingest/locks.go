package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/noah-isme/sma-timetable/internal/timetable"
)

// LockSpec is the human-entered form of a lock: a room range (or "*" for
// every group), a day token and a period list such as "1-3,5".
type LockSpec struct {
	Name    string `json:"name" yaml:"name"`
	Rooms   string `json:"rooms" yaml:"rooms"`
	Day     string `json:"day" yaml:"day"`
	Periods string `json:"periods" yaml:"periods"`
}

// ErrIncompleteLock is returned when a lock spec misses a field.
var ErrIncompleteLock = errors.New("lock name, rooms, day and periods are required")

// ParseLockSpec expands a lock entered as separate fields.
func ParseLockSpec(name, rooms, day, periods string) ([]timetable.Lock, error) {
	return LockSpec{Name: name, Rooms: rooms, Day: day, Periods: periods}.Expand()
}

// Expand validates the fields and returns one lock per period.
func (s LockSpec) Expand() ([]timetable.Lock, error) {
	name := strings.TrimSpace(s.Name)
	rooms := strings.TrimSpace(s.Rooms)
	if name == "" || rooms == "" || strings.TrimSpace(s.Day) == "" || strings.TrimSpace(s.Periods) == "" {
		return nil, ErrIncompleteLock
	}

	groups := []string{timetable.AllGroups}
	if rooms != "*" {
		var err error
		if groups, err = ExpandRooms(rooms); err != nil {
			return nil, fmt.Errorf("lock %s: %w", name, err)
		}
		if len(groups) == 0 {
			return nil, fmt.Errorf("lock %s: no rooms in %q", name, rooms)
		}
	}

	day, err := timetable.ParseDay(s.Day)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", name, err)
	}
	periods, err := ParsePeriods(s.Periods)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", name, err)
	}

	locks := make([]timetable.Lock, 0, len(periods))
	for _, period := range periods {
		locks = append(locks, timetable.Lock{
			Name:   name,
			Groups: append([]string(nil), groups...),
			Day:    day,
			Period: period,
		})
	}
	return locks, nil
}

// ParsePeriods parses a comma separated list of periods and period ranges.
// Every invalid part is reported once; a range is checked against the day
// before it is expanded.
func ParsePeriods(raw string) ([]int, error) {
	var (
		periods []int
		errs    *multierror.Error
	)
	for _, part := range listSeparator.Split(strings.TrimSpace(raw), -1) {
		if part == "" {
			continue
		}
		from, to, isRange := parseRange(part)
		if !isRange {
			n, err := strconv.Atoi(part)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("invalid period %q", part))
				continue
			}
			if n < 1 || n > timetable.PeriodsPerDay {
				errs = multierror.Append(errs, fmt.Errorf("period %d outside 1-%d", n, timetable.PeriodsPerDay))
				continue
			}
			periods = append(periods, n)
			continue
		}
		if from > to {
			errs = multierror.Append(errs, fmt.Errorf("invalid period range %q", part))
			continue
		}
		if from < 1 || to > timetable.PeriodsPerDay {
			errs = multierror.Append(errs, fmt.Errorf("period range %q outside 1-%d", part, timetable.PeriodsPerDay))
			continue
		}
		for p := from; p <= to; p++ {
			periods = append(periods, p)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("no periods in %q", raw)
	}
	return periods, nil
}
