package schedule

import (
	"time"

	"github.com/nexplan/nexplan-api/internal/models"
)

// Granularity selects how much of the anchor's wall clock a reschedule uses.
type Granularity string

const (
	// GranularityDate is a coarse, date-only move (month-grid drag): the
	// event keeps its original hour and minute of day.
	GranularityDate Granularity = "date"
	// GranularityTime is a fine move (hour-slot drop): the anchor's hour
	// and minute are used directly.
	GranularityTime Granularity = "time"
)

// Valid reports whether g names a known granularity.
func (g Granularity) Valid() bool {
	return g == GranularityDate || g == GranularityTime
}

// Reschedule computes the new start and end for an event moved to anchor.
// Duration is measured in whole minutes and preserved exactly; seconds are
// dropped, which matches the system's minute-level time resolution. Local
// midnight rollovers get no special handling.
func Reschedule(ev models.Event, anchor time.Time, g Granularity) (time.Time, time.Time) {
	duration := ev.End.Sub(ev.Start).Truncate(time.Minute)

	hour, minute := anchor.Hour(), anchor.Minute()
	if g == GranularityDate {
		hour, minute = ev.Start.Hour(), ev.Start.Minute()
	}

	newStart := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), hour, minute, 0, 0, anchor.Location())
	return newStart, newStart.Add(duration)
}
