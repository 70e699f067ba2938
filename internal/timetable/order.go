package timetable

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownGroup is returned for a requested group without subjects.
	ErrUnknownGroup = errors.New("group has no subjects")
	// ErrDuplicateGroup is returned when a group is requested twice.
	ErrDuplicateGroup = errors.New("group listed twice")
)

// Order returns the scheduling order: requested when given, otherwise
// Groups(subjects). Every requested group must have subjects and appear once,
// since scheduling a group twice books its teachers twice.
func Order(subjects []Subject, requested []string) ([]string, error) {
	known := Groups(subjects)
	if len(requested) == 0 {
		return known, nil
	}
	index := make(map[string]struct{}, len(known))
	for _, g := range known {
		index[g] = struct{}{}
	}
	seen := make(map[string]struct{}, len(requested))
	for _, g := range requested {
		if _, ok := index[g]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, g)
		}
		if _, dup := seen[g]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGroup, g)
		}
		seen[g] = struct{}{}
	}
	return append([]string(nil), requested...), nil
}
