package service

import (
	"fmt"
	"strings"
	"time"
)

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseClock converts a 24h "HH:MM" wall-clock time into minutes since midnight.
// Postgres TIME values ("HH:MM:SS") are accepted; seconds are dropped.
func ParseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q (want HH:MM)", value)
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether half-open intervals [s1,e1) and [s2,e2) intersect.
// Touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}
