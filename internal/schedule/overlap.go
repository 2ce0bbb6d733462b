package schedule

import "time"

// Overlaps reports whether two intervals share any instant, using the
// half-open convention: an event ending exactly when another starts does
// not overlap it. Inputs are assumed to be ordered pairs; the predicate
// does not validate start < end. A zero-duration interval overlaps a range
// only when its instant falls strictly inside it, and two zero-duration
// intervals never overlap each other.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
