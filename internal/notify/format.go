// Package notify formats appointment results and delivers them to a
// Discord or Slack webhook.
package notify

import (
	"fmt"
	"sort"
	"strings"

	"slot_bot/internal/model"
)

const timeLayout = "1/2/2006 3:04:05 PM"

// ContinuationMarker is appended to a chunk that was split mid-line so the
// reader can tell the line continues in the next message.
const ContinuationMarker = "..."

// Format renders the qualifying results as human-readable text: a header
// line per location followed by one indented line per available time, in
// chronological order. Locations are emitted in name order so repeated
// runs produce identical text. Returns "" when nothing qualifies.
func Format(results map[string]model.AppointmentResult) string {
	names := make([]string, 0, len(results))
	for name, r := range results {
		if r.HasAppointments() {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		r := results[name]
		fmt.Fprintf(&b, "%s:\n", r.LocationName)
		for _, t := range r.AvailableTimes {
			fmt.Fprintf(&b, "  %s\n", t.Format(timeLayout))
		}
	}
	return b.String()
}

// Chunk splits text into pieces no longer than maxLen, breaking at the
// last newline at or before the limit. A single line longer than maxLen is
// split mid-line with ContinuationMarker appended; concatenating the
// chunks with markers stripped reproduces the original text.
func Chunk(text string, maxLen int) []string {
	if len(text) <= maxLen || maxLen <= len(ContinuationMarker) {
		return []string{text}
	}

	var chunks []string
	for len(text) > maxLen {
		if idx := strings.LastIndexByte(text[:maxLen], '\n'); idx >= 0 {
			chunks = append(chunks, text[:idx+1])
			text = text[idx+1:]
			continue
		}
		cut := maxLen - len(ContinuationMarker)
		chunks = append(chunks, text[:cut]+ContinuationMarker)
		text = text[cut:]
	}
	return append(chunks, text)
}
