package analyzer

import (
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseDeadline resolves free-text deadlines like "Friday", "EOD" or "next
// week" against a reference time. A named weekday always means the NEXT
// occurrence strictly after the reference day. Returns false for text it
// cannot interpret.
func ParseDeadline(deadline string, ref time.Time) (time.Time, bool) {
	lower := strings.ToLower(strings.TrimSpace(deadline))

	for name, day := range weekdays {
		if strings.Contains(lower, name) {
			ahead := int(day) - int(ref.Weekday())
			if ahead <= 0 {
				ahead += 7
			}
			return ref.AddDate(0, 0, ahead), true
		}
	}

	switch {
	case strings.Contains(lower, "today") || strings.Contains(lower, "eod"):
		return ref, true
	case strings.Contains(lower, "tomorrow"):
		return ref.AddDate(0, 0, 1), true
	case strings.Contains(lower, "next week"):
		return ref.AddDate(0, 0, 7), true
	case strings.Contains(lower, "end of week"):
		ahead := (int(time.Friday) - int(ref.Weekday()) + 7) % 7
		return ref.AddDate(0, 0, ahead), true
	}

	return time.Time{}, false
}
