package utils

import "time"

// DateFormat is the wire format for calendar dates used by the tracker API.
const DateFormat = "2006-01-02"

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekdaysBetween returns the ordered, inclusive sequence of calendar dates
// between start and end, excluding Saturdays and Sundays. The result is empty
// when start is after end. Times of day are preserved from start.
func WeekdaysBetween(start, end time.Time) []time.Time {
	dates := []time.Time{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

// StartOfWeek returns the Monday of the week containing t, at the same time of day.
func StartOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return t.AddDate(0, 0, -(wd - 1))
}

// FormatDate renders a date in the tracker API wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a date in the tracker API wire format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
