package utils

import (
	"fmt"
	"time"
)

// LabelLayout is the time-of-day layout used for window boundary labels.
const LabelLayout = "15:04:05"

// ParseInstant parses an ISO-8601 track timestamp such as
// "2021-03-15T01:42:26.000Z". Fractional seconds are optional.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return t, nil
}

// FormatLabel renders an instant as a time-of-day label in loc.
// A nil loc means time.Local.
func FormatLabel(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(LabelLayout)
}

// SessionName returns a unique output directory name:
//
//	<prefix>_YYYYMMDD_HHMMSS
func SessionName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, time.Now().Format("20060102_150405"))
}
