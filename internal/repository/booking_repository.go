package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vrasish/finalplanner/internal/model"
	"github.com/vrasish/finalplanner/internal/schedule"
)

// PlanEntry is a booking joined with its task, as shown on the daily plan.
type PlanEntry struct {
	TaskID          uint
	Title           string
	PlanDate        time.Time
	StartTime       schedule.TimeOfDay
	DurationMinutes int
	Deadline        time.Time
}

// BookingRepository handles daily-plan entries.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// IntervalsOn returns the booked intervals for a calendar date, each booking
// expanded via its task's duration. Implements schedule.BookingSource.
func (r *BookingRepository) IntervalsOn(ctx context.Context, date time.Time) ([]schedule.Interval, error) {
	entries, err := r.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	intervals := make([]schedule.Interval, 0, len(entries))
	for _, e := range entries {
		intervals = append(intervals, schedule.NewInterval(e.StartTime, e.DurationMinutes))
	}
	return intervals, nil
}

// planQuery is the bookings-joined-with-tasks select shared by the plan
// readers.
func (r *BookingRepository) planQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.task_id, tasks.title, bookings.plan_date, bookings.start_time, tasks.duration_minutes, tasks.deadline").
		Joins("JOIN tasks ON tasks.id = bookings.task_id")
}

// ListForDate returns the plan for one date ordered by start time.
func (r *BookingRepository) ListForDate(ctx context.Context, date time.Time) ([]PlanEntry, error) {
	var entries []PlanEntry
	err := r.planQuery(ctx).
		Where("bookings.plan_date = ?", schedule.DateOnly(date)).
		Order("bookings.start_time ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", date.Format("2006-01-02"), err)
	}
	return entries, nil
}

// ListRange returns plan entries for [from, to] inclusive, ordered by date
// then start time.
func (r *BookingRepository) ListRange(ctx context.Context, from, to time.Time) ([]PlanEntry, error) {
	var entries []PlanEntry
	err := r.planQuery(ctx).
		Where("bookings.plan_date >= ? AND bookings.plan_date <= ?", schedule.DateOnly(from), schedule.DateOnly(to)).
		Order("bookings.plan_date ASC, bookings.start_time ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings in range: %w", err)
	}
	return entries, nil
}

// ExcludingTask returns a plan view that ignores the given task's own
// booking. The scheduler replaces a task's prior booking when it commits,
// so that booking must not count as a conflict while searching.
func (r *BookingRepository) ExcludingTask(taskID uint) schedule.BookingSource {
	return excludeTaskSource{repo: r, taskID: taskID}
}

type excludeTaskSource struct {
	repo   *BookingRepository
	taskID uint
}

func (s excludeTaskSource) IntervalsOn(ctx context.Context, date time.Time) ([]schedule.Interval, error) {
	var entries []PlanEntry
	err := s.repo.planQuery(ctx).
		Where("bookings.plan_date = ?", schedule.DateOnly(date)).
		Where("bookings.task_id <> ?", s.taskID).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", date.Format("2006-01-02"), err)
	}
	intervals := make([]schedule.Interval, 0, len(entries))
	for _, e := range entries {
		intervals = append(intervals, schedule.NewInterval(e.StartTime, e.DurationMinutes))
	}
	return intervals, nil
}

// Replace commits a booking for its task: any prior booking for the task is
// removed and the new one inserted, as a single transaction. This is the
// atomic delete-then-insert unit that keeps at most one live booking per
// task.
func (r *BookingRepository) Replace(ctx context.Context, booking *model.Booking) error {
	booking.PlanDate = schedule.DateOnly(booking.PlanDate)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", booking.TaskID).Delete(&model.Booking{}).Error; err != nil {
			return err
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		return fmt.Errorf("replace booking for task %d: %w", booking.TaskID, err)
	}
	return nil
}

// DeleteForTask removes the task's booking, reporting how many rows went
// away so callers can tell a no-op from a real unschedule.
func (r *BookingRepository) DeleteForTask(ctx context.Context, taskID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&model.Booking{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete booking for task %d: %w", taskID, res.Error)
	}
	return res.RowsAffected, nil
}

// CountForTask returns the number of live bookings for a task.
func (r *BookingRepository) CountForTask(ctx context.Context, taskID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Booking{}).Where("task_id = ?", taskID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
