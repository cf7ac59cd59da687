// Package filter implements date-window and time-of-day filtering of
// parsed appointment times.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit is the calendar unit of a relative date window.
type Unit string

// Supported relative window units.
const (
	UnitDay   Unit = "d"
	UnitWeek  Unit = "w"
	UnitMonth Unit = "m"
)

// DateKind selects how a DateSpec derives its window.
type DateKind int

// Supported date spec kinds. The zero value applies no date filtering.
const (
	DateNone DateKind = iota
	DateAbsolute
	DateRelative
)

// DateSpec describes an optional date window. Absolute specs carry fixed
// start and end dates; relative specs are resolved against "today" each
// time they are applied. Both bounds are inclusive at date granularity.
type DateSpec struct {
	Kind  DateKind
	Start time.Time
	End   time.Time
	Count int
	Unit  Unit
}

// Window resolves the spec to an inclusive [start, end] date pair.
// The boolean is false when no date filtering is configured.
func (s DateSpec) Window(now time.Time) (time.Time, time.Time, bool) {
	switch s.Kind {
	case DateAbsolute:
		return dateOnly(s.Start), dateOnly(s.End), true
	case DateRelative:
		start := dateOnly(now)
		var end time.Time
		switch s.Unit {
		case UnitWeek:
			end = start.AddDate(0, 0, 7*s.Count)
		case UnitMonth:
			end = start.AddDate(0, s.Count, 0)
		default:
			end = start.AddDate(0, 0, s.Count)
		}
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

// ParseRelative parses a relative window token such as "2w": a positive
// count followed by a unit letter (d, w, or m).
func ParseRelative(token string) (DateSpec, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if len(token) < 2 {
		return DateSpec{}, fmt.Errorf("invalid relative window %q", token)
	}
	unit := Unit(token[len(token)-1:])
	switch unit {
	case UnitDay, UnitWeek, UnitMonth:
	default:
		return DateSpec{}, fmt.Errorf("invalid relative window unit in %q (want d, w, or m)", token)
	}
	count, err := strconv.Atoi(token[:len(token)-1])
	if err != nil || count <= 0 {
		return DateSpec{}, fmt.Errorf("invalid relative window count in %q", token)
	}
	return DateSpec{Kind: DateRelative, Count: count, Unit: unit}, nil
}

// TimeWindow is an inclusive time-of-day range in minutes since midnight.
// A window whose Start is after its End matches nothing; ranges do not
// wrap around midnight.
type TimeWindow struct {
	Start int
	End   int
}

func (w TimeWindow) contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.Start && m <= w.End
}

// ParseTimeOfDay parses an "HH:MM" clock value into minutes since midnight.
func ParseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Apply returns the subset of times falling inside the date window and the
// time-of-day window. Date comparison ignores time of day; the two windows
// are evaluated independently. The input slice is never modified.
func Apply(times []time.Time, date DateSpec, tod *TimeWindow, now time.Time) []time.Time {
	start, end, hasDate := date.Window(now)

	var kept []time.Time
	for _, t := range times {
		if hasDate {
			d := dateOnly(t)
			if d.Before(start) || d.After(end) {
				continue
			}
		}
		if tod != nil && !tod.contains(t) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
