package schedule

// Interval is a half-open [Start, End) time range in minutes from the start
// of its calendar day. End may exceed 24*60 when a booking runs past
// midnight; overlap math stays on the un-wrapped values.
type Interval struct {
	Start int
	End   int
}

// NewInterval builds the interval for a booking starting at t and running
// for durationMinutes.
func NewInterval(t TimeOfDay, durationMinutes int) Interval {
	start := t.Minutes()
	return Interval{Start: start, End: start + durationMinutes}
}

// Overlaps reports whether the two half-open intervals strictly overlap.
// Intervals that merely touch endpoint-to-endpoint do not conflict.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// OverlapsAny reports whether iv overlaps at least one of the given
// intervals.
func (iv Interval) OverlapsAny(existing []Interval) bool {
	for _, other := range existing {
		if iv.Overlaps(other) {
			return true
		}
	}
	return false
}

// EndTime is the clock time at which the interval ends, wrapped past
// midnight like a wall clock.
func (iv Interval) EndTime() TimeOfDay {
	return FromMinutes(iv.End)
}
