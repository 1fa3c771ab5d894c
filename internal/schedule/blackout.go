package schedule

import "time"

// Fixed daily busy window on weekdays (school hours).
const (
	blackoutStartHour = 8
	blackoutEndHour   = 16
)

// IsBlackout reports whether the given clock time on the given date falls
// inside the fixed busy window: Monday-Friday, 08:00-16:00. Weekends are
// never blacked out.
func IsBlackout(date time.Time, t TimeOfDay) bool {
	if isWeekend(date) {
		return false
	}
	return t.Hour >= blackoutStartHour && t.Hour < blackoutEndHour
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
