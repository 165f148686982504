package timegrid

import (
	"fmt"
	"time"
)

// WeekStart returns the canonical Monday 00:00 UTC start of the ISO week
// containing t.
// Complexity: O(1).
func WeekStart(t time.Time) time.Time {
	d := midnight(t)
	// time.Weekday numbers Sunday as 0; shift so Monday is 0.
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

// WeekLabel formats the ISO year-week label ("2010-W05") of the week
// containing t.
// Complexity: O(1).
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// ParseWeekLabel parses a "YYYY-Www" label into the canonical Monday
// week start. Returns ErrBadWeekLabel on malformed input.
// Complexity: O(1).
func ParseWeekLabel(s string) (time.Time, error) {
	var year, week int
	if _, err := fmt.Sscanf(s, "%4d-W%2d", &year, &week); err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrBadWeekLabel)
	}
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrBadWeekLabel)
	}
	// January 4th always falls in ISO week 1 of its year.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	start := WeekStart(jan4).AddDate(0, 0, (week-1)*7)
	// Reject week numbers past the last ISO week of the year (e.g. W53 in
	// a 52-week year rolls into the next ISO year).
	if y, _ := start.ISOWeek(); y != year {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrBadWeekLabel)
	}
	return start, nil
}

// ParseDate parses a raw date string under the given layout descriptor.
// The layout is either a Go time layout for day-level input, or the
// reserved ISOWeekLayout literal for "YYYY-Www" input (in which case the
// canonical week start is returned). The result is normalized to UTC
// midnight.
func ParseDate(s, layout string) (time.Time, error) {
	if layout == ISOWeekLayout {
		return ParseWeekLabel(s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return midnight(t), nil
}

// midnight truncates t to 00:00 UTC of the same calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
