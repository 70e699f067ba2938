// Package ingest turns timetable spreadsheets (subjects, building order, lock
// specs) into the inputs of the scheduling engine.
package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	roomTriplePattern = regexp.MustCompile(`^([^/]+)/(\d+)/(.+)`)
	roomPairPattern   = regexp.MustCompile(`^(.+?)/(.+)`)
	listSeparator     = regexp.MustCompile(`\s*,\s*`)
	dashReplacer      = strings.NewReplacer("–", "-", "—", "-")
)

// maxExpandedRooms bounds what one room expression may expand to.
const maxExpandedRooms = 200

// ExpandRooms expands a room range expression into concrete room ids.
//
//	"ม.1/1-3"       -> ม.1/1 ม.1/2 ม.1/3
//	"ม.4/2/101,105" -> ม.4/2/101 ม.4/2/105
//	"Gym"           -> Gym
//
// An expression naming more than maxExpandedRooms rooms is an error.
func ExpandRooms(raw string) ([]string, error) {
	raw = strings.TrimSpace(dashReplacer.Replace(raw))
	if raw == "" {
		return nil, nil
	}
	if !strings.Contains(raw, "/") {
		return []string{raw}, nil
	}

	var prefix, numbers string
	if m := roomTriplePattern.FindStringSubmatch(raw); m != nil {
		prefix = strings.TrimSpace(m[1]) + "/" + strings.TrimSpace(m[2])
		numbers = strings.TrimSpace(m[3])
	} else if m := roomPairPattern.FindStringSubmatch(raw); m != nil {
		prefix = strings.TrimSpace(m[1])
		numbers = strings.TrimSpace(m[2])
	} else {
		return nil, nil
	}

	var rooms []string
	for _, part := range listSeparator.Split(numbers, -1) {
		if from, to, ok := parseRange(part); ok {
			if to-from >= maxExpandedRooms-len(rooms) {
				return nil, fmt.Errorf("room range %q expands to more than %d rooms", part, maxExpandedRooms)
			}
			for i := from; i <= to; i++ {
				rooms = append(rooms, prefix+"/"+strconv.Itoa(i))
			}
			continue
		}
		if isDigits(part) {
			if len(rooms) >= maxExpandedRooms {
				return nil, fmt.Errorf("room list expands to more than %d rooms", maxExpandedRooms)
			}
			rooms = append(rooms, prefix+"/"+part)
		}
	}
	return rooms, nil
}

func parseRange(part string) (int, int, bool) {
	from, to, found := strings.Cut(part, "-")
	if !found {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
