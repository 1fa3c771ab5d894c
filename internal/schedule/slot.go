package schedule

import (
	"context"
	"time"
)

// Candidate slots start on the half hour, never before 05:00 and never at or
// after midnight.
const (
	earliestHour = 5
	latestHour   = 24
	scanDays     = 8 // anchor day plus seven more; slots are never placed further out
)

var slotMinutes = [...]int{0, 30}

// BookingSource exposes the bookings already committed for a calendar date,
// expanded to intervals via each task's duration. FindSlot performs a fresh
// read per scanned day.
type BookingSource interface {
	IntervalsOn(ctx context.Context, date time.Time) ([]Interval, error)
}

// DateOnly truncates t to midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FindSlot scans forward from anchor for the earliest slot that can hold
// durationMinutes without touching the weekday busy window or any existing
// booking. It returns ok=false when the whole scan window is exhausted;
// that is a normal outcome, not an error.
func FindSlot(ctx context.Context, anchor time.Time, durationMinutes int, src BookingSource) (time.Time, TimeOfDay, bool, error) {
	anchor = DateOnly(anchor)

	for offset := 0; offset < scanDays; offset++ {
		day := anchor.AddDate(0, 0, offset)
		weekend := isWeekend(day)

		existing, err := src.IntervalsOn(ctx, day)
		if err != nil {
			return time.Time{}, TimeOfDay{}, false, err
		}

		for _, hour := range candidateHours(weekend) {
			for _, minute := range slotMinutes {
				start := At(hour, minute)
				iv := NewInterval(start, durationMinutes)

				// The busy-window test inspects exactly two instants: the
				// start and the (wrapped) end clock time. It is not a
				// full-interval containment check, and must stay that way:
				// tightening it would change which slots are accepted.
				if !weekend && IsBlackout(day, start) {
					continue
				}
				if !weekend && IsBlackout(day, iv.EndTime()) {
					continue
				}
				if iv.OverlapsAny(existing) {
					continue
				}
				return day, start, true, nil
			}
		}
	}

	return time.Time{}, TimeOfDay{}, false, nil
}

// candidateHours returns the start hours to try on a day, ascending. On
// weekdays the busy window 08-16 is skipped up front; weekends offer every
// hour from 05:00.
func candidateHours(weekend bool) []int {
	hours := make([]int, 0, latestHour-earliestHour)
	for h := earliestHour; h < latestHour; h++ {
		if !weekend && h >= blackoutStartHour && h < blackoutEndHour {
			continue
		}
		hours = append(hours, h)
	}
	return hours
}
