package timeparse

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func local(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.Local)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []time.Time
	}{
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "blank input",
			raw:  "   ",
			want: nil,
		},
		{
			name: "single 12-hour with seconds",
			raw:  "01/15/2025 10:00:00 AM",
			want: []time.Time{local(2025, time.January, 15, 10, 0, 0)},
		},
		{
			name: "invalid token dropped, rest kept",
			raw:  "01/15/2025 10:00:00 AM,invalid,01/16/2025 2:00:00 PM",
			want: []time.Time{
				local(2025, time.January, 15, 10, 0, 0),
				local(2025, time.January, 16, 14, 0, 0),
			},
		},
		{
			name: "output sorted regardless of input order",
			raw:  "01/16/2025 2:00:00 PM,01/15/2025 10:00:00 AM",
			want: []time.Time{
				local(2025, time.January, 15, 10, 0, 0),
				local(2025, time.January, 16, 14, 0, 0),
			},
		},
		{
			name: "12-hour without seconds",
			raw:  "1/5/2025 9:30 AM",
			want: []time.Time{local(2025, time.January, 5, 9, 30, 0)},
		},
		{
			name: "24-hour with seconds",
			raw:  "01/15/2025 14:30:00",
			want: []time.Time{local(2025, time.January, 15, 14, 30, 0)},
		},
		{
			name: "24-hour without seconds",
			raw:  "01/15/2025 14:30",
			want: []time.Time{local(2025, time.January, 15, 14, 30, 0)},
		},
		{
			name: "one-digit month and day",
			raw:  "3/7/2025 8:00:00 AM",
			want: []time.Time{local(2025, time.March, 7, 8, 0, 0)},
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  " 01/15/2025 10:00:00 AM , 01/16/2025 2:00:00 PM ",
			want: []time.Time{
				local(2025, time.January, 15, 10, 0, 0),
				local(2025, time.January, 16, 14, 0, 0),
			},
		},
		{
			name: "all tokens invalid",
			raw:  "soon,later,whenever",
			want: nil,
		},
		{
			name: "trailing comma ignored",
			raw:  "01/15/2025 10:00:00 AM,",
			want: []time.Time{local(2025, time.January, 15, 10, 0, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}
