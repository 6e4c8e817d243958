package domain

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

const hoursPerDay = 24

// DateOf returns the calendar date of t as observed in loc, expressed as
// midnight UTC. All due and payment dates are carried in this form so that
// date arithmetic never crosses a DST boundary.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeDate drops the clock part of a date that was already read as a
// calendar date (e.g. a Postgres DATE column or a parsed "2006-01-02" string).
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from "from" to "to".
// The result is negative when "to" is before "from".
func DaysBetween(from, to time.Time) int {
	return int(NormalizeDate(to).Sub(NormalizeDate(from)).Hours() / hoursPerDay)
}

// AddDays shifts a calendar date by n days.
func AddDays(date time.Time, n int) time.Time {
	return NormalizeDate(date).AddDate(0, 0, n)
}

// ParseDate parses a "2006-01-02" string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}
