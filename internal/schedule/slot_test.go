package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned intervals keyed by date and records which days
// were read.
type fakeSource struct {
	byDate map[string][]Interval
	always []Interval
	reads  []string
}

func (f *fakeSource) IntervalsOn(_ context.Context, date time.Time) ([]Interval, error) {
	key := date.Format("2006-01-02")
	f.reads = append(f.reads, key)
	if f.always != nil {
		return f.always, nil
	}
	return f.byDate[key], nil
}

func TestFindSlotEmptyCalendarMonday(t *testing.T) {
	src := &fakeSource{}
	day, start, ok, err := FindSlot(context.Background(), monday, 60, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, monday, day)
	assert.Equal(t, At(5, 0), start)
}

func TestFindSlotSkipsBookedHalfHours(t *testing.T) {
	src := &fakeSource{byDate: map[string][]Interval{
		monday.Format("2006-01-02"): {NewInterval(At(5, 0), 30)},
	}}
	day, start, ok, err := FindSlot(context.Background(), monday, 45, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, monday, day)
	// 45 minutes fits starting on the next half-hour boundary.
	assert.Equal(t, At(5, 30), start)
}

func TestFindSlotRejectsEndInsideBusyWindow(t *testing.T) {
	// Four hours starting at 05:00-07:00 would end at 09:00-11:00, inside
	// the weekday busy window; the first viable start is 16:00.
	src := &fakeSource{}
	day, start, ok, err := FindSlot(context.Background(), monday, 240, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, monday, day)
	assert.Equal(t, At(16, 0), start)
}

func TestFindSlotWeekendIgnoresBusyWindow(t *testing.T) {
	src := &fakeSource{byDate: map[string][]Interval{
		saturday.Format("2006-01-02"): {NewInterval(At(5, 0), 240)},
	}}
	day, start, ok, err := FindSlot(context.Background(), saturday, 60, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saturday, day)
	// 09:00 would be blacked out on a weekday; weekends offer it.
	assert.Equal(t, At(9, 0), start)
}

func TestFindSlotFullDaySpillsToNextDay(t *testing.T) {
	// Monday booked back-to-back with 30-minute tasks across the whole
	// weekday grid: 05:00-08:00 and 16:00-24:00.
	var booked []Interval
	for m := 5 * 60; m < 8*60; m += 30 {
		booked = append(booked, Interval{Start: m, End: m + 30})
	}
	for m := 16 * 60; m < 24*60; m += 30 {
		booked = append(booked, Interval{Start: m, End: m + 30})
	}
	src := &fakeSource{byDate: map[string][]Interval{
		monday.Format("2006-01-02"): booked,
	}}

	day, start, ok, err := FindSlot(context.Background(), monday, 30, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, monday.AddDate(0, 0, 1), day)
	assert.Equal(t, At(5, 0), start)
}

func TestFindSlotHorizonIsEightDays(t *testing.T) {
	// Every day fully blocked: the scan gives up after anchor+7.
	src := &fakeSource{always: []Interval{{Start: 0, End: 24 * 60}}}
	_, _, ok, err := FindSlot(context.Background(), monday, 30, src)
	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, src.reads, 8)
	assert.Equal(t, monday.Format("2006-01-02"), src.reads[0])
	assert.Equal(t, monday.AddDate(0, 0, 7).Format("2006-01-02"), src.reads[7])
}

func TestFindSlotReadsFreshPerDay(t *testing.T) {
	src := &fakeSource{always: []Interval{{Start: 0, End: 24 * 60}}}
	_, _, _, err := FindSlot(context.Background(), saturday, 30, src)
	require.NoError(t, err)
	// One read per scanned day, not one per candidate.
	assert.Len(t, src.reads, 8)
}

func TestFindSlotNeverBeforeFive(t *testing.T) {
	// Sunday with everything from 05:00 on taken: the scan moves to Monday
	// rather than offering the 00:00-05:00 window.
	src := &fakeSource{byDate: map[string][]Interval{
		sunday.Format("2006-01-02"): {{Start: 5 * 60, End: 24 * 60}},
	}}
	day, start, ok, err := FindSlot(context.Background(), sunday, 30, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sunday.AddDate(0, 0, 1), day)
	assert.Equal(t, At(5, 0), start)
}
