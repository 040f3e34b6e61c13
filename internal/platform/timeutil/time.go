package timeutil

import "time"

const (
	// RFC3339Micros is used for log timestamps.
	RFC3339Micros = "2006-01-02T15:04:05.000000Z07:00"

	// DateLayout is the DD.MM.YYYY layout accepted for request dates.
	DateLayout = "02.01.2006"

	// HourLayout formats a time to hour granularity (YYYYMMDDHH).
	HourLayout = "2006010215"
)

// ParseDate parses a DD.MM.YYYY string into a date at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// YearsBefore returns the calendar date exactly years before t, truncated to midnight.
// When t's month and day do not exist in the target year (Feb 29), March 1st of
// that year is returned.
func YearsBefore(t time.Time, years int) time.Time {
	year := t.Year() - years
	d := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if d.Month() != t.Month() || d.Day() != t.Day() {
		return time.Date(year, time.March, 1, 0, 0, 0, 0, t.Location())
	}
	return d
}

// HourStamp formats t in local time to hour granularity.
func HourStamp(t time.Time) string {
	return t.Local().Format(HourLayout)
}
