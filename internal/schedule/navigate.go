package schedule

import (
	"time"

	"github.com/nexplan/nexplan-api/internal/models"
)

// Step moves a date one unit forward or backward at the given view
// granularity. Month and year steps clamp the day-of-month when the target
// month is shorter (Jan 31 -> Feb 28), instead of the overflow
// normalization AddDate would apply. The navigator is pure and knows
// nothing about events.
func Step(current time.Time, view models.ViewMode, direction int) time.Time {
	if direction >= 0 {
		direction = 1
	} else {
		direction = -1
	}

	switch view {
	case models.ViewDay:
		return current.AddDate(0, 0, direction)
	case models.ViewYear:
		return addMonthsClamped(current, 12*direction)
	default:
		return addMonthsClamped(current, direction)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)

	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
