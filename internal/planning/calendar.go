// Package planning contains the pure rule engine behind the vagtplan API:
// calendar enumeration, availability and conflict detection, and the greedy
// fair-share distribution of weekend shifts. Every function operates on
// immutable snapshots and performs no I/O, so callers can rerun them on each
// fresh snapshot without accumulating state.
package planning

import (
	"time"

	"github.com/mkrogh/vagtplan-api/internal/models"
)

// Day truncates a timestamp to its plain calendar day in UTC. All core
// comparisons go through Day so timezone drift cannot split a date in two.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// EnumerateDays returns every calendar day from period start to end,
// inclusive, in ascending order. An inverted period yields an empty slice:
// downstream consumers treat it as "nothing to plan", not as an error.
func EnumerateDays(period models.Period) []time.Time {
	start := Day(period.Start)
	end := Day(period.End)
	if start.After(end) {
		return nil
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// IsWeekend reports whether the day is a Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
