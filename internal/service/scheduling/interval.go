package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// ParseWeekAnchor parses YYYY-MM-DD into UTC midnight. Empty text means
// "no anchor" and returns nil.
func ParseWeekAnchor(text string) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, text, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWeekAnchor, text)
	}
	return &t, nil
}

// FormatWeekAnchor is the inverse of ParseWeekAnchor.
func FormatWeekAnchor(anchor *time.Time) *string {
	if anchor == nil {
		return nil
	}
	s := anchor.UTC().Format(time.DateOnly)
	return &s
}

// ToMinutes converts H:MM or HH:MM to minutes after midnight.
func ToMinutes(hhmm string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 || strings.ContainsAny(h, "+-") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || strings.ContainsAny(m, "+-") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return hour*60 + minute, nil
}

// FromMinutes formats minutes after midnight as zero-padded HH:MM.
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NextMonday returns the UTC midnight of the Monday after today. On a
// Sunday that is tomorrow; on a Monday it is a week away.
func NextMonday(today time.Time) time.Time {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if today.Weekday() == time.Sunday {
		return day.AddDate(0, 0, 1)
	}
	return day.AddDate(0, 0, 8-int(today.Weekday()))
}

func validWeekday(d int) bool { return d >= 0 && d <= 6 }

func validRange(start, end int) bool {
	return start >= 0 && end <= minutesPerDay && start < end
}
