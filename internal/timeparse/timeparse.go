// Package timeparse converts raw scraped time strings into time.Time values.
package timeparse

import (
	"sort"
	"strings"
	"time"
)

// Accepted layouts, first match wins. The "1" and "2" reference digits
// accept both one- and two-digit month and day values.
var layouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// Parse splits a comma-delimited list of timestamps and parses each entry
// in local time. Entries matching no accepted layout are dropped so that
// one bad token cannot invalidate the rest of a location's data. Empty or
// blank input yields an empty result; the site reports "no appointments"
// that way. The returned slice is sorted ascending.
func Parse(raw string) []time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var times []time.Time
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if t, ok := parseOne(part); ok {
			times = append(times, t)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

func parseOne(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
