package util

import "time"

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD as local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// StartOfDay returns 00:00:00.000 of t's local calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// EndOfDay returns 23:59:59.999 of t's local calendar day.
func EndOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.Local)
}

// FormatDate renders the calendar day stored in t without zone conversion.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay compares calendar days as stored, ignoring zones.
func SameDay(a, b time.Time) bool {
	return FormatDate(a) == FormatDate(b)
}

// PreviousWorkday returns local midnight of the last Monday-Friday day
// before t.
func PreviousWorkday(t time.Time) time.Time {
	d := StartOfDay(t).AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
