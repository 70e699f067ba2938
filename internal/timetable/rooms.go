package timetable

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// BuildingMap maps a building letter prefix to its display number.
type BuildingMap map[string]int

var (
	roomLabelPattern = regexp.MustCompile(`^([A-Z]+)(\d+)`)
	digitsPattern    = regexp.MustCompile(`\d+`)
)

// ConvertRoomLabel replaces a room's building letter prefix with the mapped
// building number, e.g. "B12" with {B: 3} becomes "312". Only the letter and
// digit prefix is kept, so "B12A" also becomes "312". Rooms without such a
// prefix, or whose building is not mapped, are returned unchanged. The result
// is for display only.
func ConvertRoomLabel(room string, buildings BuildingMap) string {
	trimmed := strings.ToUpper(strings.TrimSpace(room))
	match := roomLabelPattern.FindStringSubmatchIndex(trimmed)
	if match == nil {
		return room
	}
	letter := trimmed[match[2]:match[3]]
	number, ok := buildings[letter]
	if !ok {
		return room
	}
	return strconv.Itoa(number) + trimmed[match[4]:match[5]]
}

// ShortRoom collapses a slash separated room id to its first and last parts,
// e.g. "ม.1/2/105" becomes "ม.1105".
func ShortRoom(room string) string {
	parts := strings.Split(room, "/")
	return parts[0] + parts[len(parts)-1]
}

// BuildingOf returns the building designator of a room or group id: the
// upper-cased text before the first slash.
func BuildingOf(room string) string {
	return strings.ToUpper(strings.Split(strings.TrimSpace(room), "/")[0])
}

// RoomSortKey extracts the numeric parts of a room id for ordering.
// Ids without digits sort after every numbered id.
func RoomSortKey(room string) []int {
	parts := digitsPattern.FindAllString(room, -1)
	if len(parts) == 0 {
		return []int{9999}
	}
	key := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			n = 9999
		}
		key = append(key, n)
	}
	return key
}

// LessRoom orders room ids by RoomSortKey, falling back to plain string order.
func LessRoom(a, b string) bool {
	ka, kb := RoomSortKey(a), RoomSortKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	if len(ka) != len(kb) {
		return len(ka) < len(kb)
	}
	return a < b
}

// Groups returns the distinct groups of subjects in the canonical scheduling order.
func Groups(subjects []Subject) []string {
	seen := make(map[string]struct{})
	groups := make([]string, 0)
	for _, subject := range subjects {
		if _, ok := seen[subject.Group]; ok {
			continue
		}
		seen[subject.Group] = struct{}{}
		groups = append(groups, subject.Group)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return LessRoom(groups[i], groups[j])
	})
	return groups
}
