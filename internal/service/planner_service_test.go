package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vrasish/finalplanner/internal/model"
	"github.com/vrasish/finalplanner/internal/repository"
	"github.com/vrasish/finalplanner/internal/schedule"
)

// testToday is a Monday; tests pin the planner clock here.
var testToday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.Local)

type fixture struct {
	db       *gorm.DB
	user     model.User
	taskRepo *repository.TaskRepository
	bookings *repository.BookingRepository
	taskSvc  *TaskService
	planner  *PlannerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}, &model.Booking{}))

	user := model.User{Username: "default"}
	require.NoError(t, db.Create(&user).Error)

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	bookings := repository.NewBookingRepository(db)
	taskSvc := NewTaskService(taskRepo, userRepo)
	planner := NewPlannerService(taskSvc, bookings)
	planner.now = func() time.Time { return testToday }

	return &fixture{
		db:       db,
		user:     user,
		taskRepo: taskRepo,
		bookings: bookings,
		taskSvc:  taskSvc,
		planner:  planner,
	}
}

func (f *fixture) createTask(t *testing.T, durationMinutes int, deadline time.Time) *model.Task {
	t.Helper()
	task, err := f.taskSvc.CreateTask(context.Background(), TaskInput{
		UserID:          f.user.ID,
		Title:           "task",
		DurationMinutes: durationMinutes,
		Deadline:        deadline,
	})
	require.NoError(t, err)
	return task
}

func TestAutoScheduleDeadlineSevenDaysOutAnchorsToday(t *testing.T) {
	f := newFixture(t)
	// Deadline exactly 7 days out: deadline-7 equals today, so the anchor
	// stays at today.
	task := f.createTask(t, 60, testToday.AddDate(0, 0, 7))

	result, err := f.planner.AutoSchedule(context.Background(), task, nil)
	require.NoError(t, err)
	require.True(t, result.Scheduled)
	assert.Equal(t, testToday, result.Date)
	assert.Equal(t, schedule.At(5, 0), result.Time)
}

func TestAutoScheduleFarDeadlineAnchorsWeekBefore(t *testing.T) {
	f := newFixture(t)
	deadline := testToday.AddDate(0, 0, 20)
	task := f.createTask(t, 60, deadline)

	result, err := f.planner.AutoSchedule(context.Background(), task, nil)
	require.NoError(t, err)
	require.True(t, result.Scheduled)
	assert.Equal(t, deadline.AddDate(0, 0, -7), result.Date)
	assert.Equal(t, schedule.At(5, 0), result.Time)
}

func TestAutoSchedulePastDeadlineAnchorsToday(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, 30, testToday.AddDate(0, 0, -3))

	result, err := f.planner.AutoSchedule(context.Background(), task, nil)
	require.NoError(t, err)
	require.True(t, result.Scheduled)
	assert.Equal(t, testToday, result.Date)
}

func TestAutoScheduleIdempotent(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, 60, testToday.AddDate(0, 0, 7))

	first, err := f.planner.AutoSchedule(context.Background(), task, nil)
	require.NoError(t, err)
	second, err := f.planner.AutoSchedule(context.Background(), task, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Date, second.Date)
	assert.Equal(t, first.Time, second.Time)

	count, err := f.bookings.CountForTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAutoSchedulePreferredDateWins(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, 60, testToday.AddDate(0, 0, 2))
	preferred := testToday.AddDate(0, 0, 5) // Saturday

	result, err := f.planner.AutoSchedule(context.Background(), task, &preferred)
	require.NoError(t, err)
	require.True(t, result.Scheduled)
	assert.Equal(t, preferred, result.Date)
	assert.Equal(t, schedule.At(5, 0), result.Time)
}

func TestAutoSchedulePreferredWindowFullFallsBack(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, 60, testToday)

	// Block every slot for eight days from the preferred date with one
	// all-day booking per day.
	preferred := testToday.AddDate(0, 0, 30)
	for d := 0; d < 8; d++ {
		blocker := f.createTask(t, 19*60, testToday.AddDate(0, 0, 40))
		require.NoError(t, f.bookings.Replace(context.Background(), &model.Booking{
			UserID:    f.user.ID,
			TaskID:    blocker.ID,
			PlanDate:  preferred.AddDate(0, 0, d),
			StartTime: schedule.At(5, 0),
			TaskOrder: 1,
		}))
	}

	result, err := f.planner.AutoSchedule(context.Background(), task, &preferred)
	require.NoError(t, err)
	require.True(t, result.Scheduled)
	// Preferred window yielded nothing; the default anchor (today) took
	// over without an error.
	assert.Equal(t, testToday, result.Date)
}

func TestScheduleAtConflictLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	day := testToday.AddDate(0, 0, 5) // Saturday, busy window not in play

	occupant := f.createTask(t, 30, testToday.AddDate(0, 0, 7))
	_, err := f.planner.ScheduleAt(context.Background(), occupant.ID, day, schedule.At(9, 15))
	require.NoError(t, err)

	task := f.createTask(t, 30, testToday.AddDate(0, 0, 7))
	_, err = f.planner.ScheduleAt(context.Background(), task.ID, day, schedule.At(9, 0))
	assert.ErrorIs(t, err, ErrSlotConflict)

	count, err := f.bookings.CountForTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	plan, err := f.planner.PlanForDate(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, occupant.ID, plan[0].TaskID)
	assert.Equal(t, schedule.At(9, 15), plan[0].StartTime)
}

func TestScheduleAtTouchingSlotsDoNotConflict(t *testing.T) {
	f := newFixture(t)
	day := testToday.AddDate(0, 0, 5)

	first := f.createTask(t, 30, testToday.AddDate(0, 0, 7))
	_, err := f.planner.ScheduleAt(context.Background(), first.ID, day, schedule.At(9, 0))
	require.NoError(t, err)

	second := f.createTask(t, 30, testToday.AddDate(0, 0, 7))
	end, err := f.planner.ScheduleAt(context.Background(), second.ID, day, schedule.At(9, 30))
	require.NoError(t, err)
	assert.Equal(t, schedule.At(10, 0), end)
}

func TestScheduleAtReschedulesOwnSlot(t *testing.T) {
	f := newFixture(t)
	day := testToday.AddDate(0, 0, 5)
	task := f.createTask(t, 60, testToday.AddDate(0, 0, 7))

	_, err := f.planner.ScheduleAt(context.Background(), task.ID, day, schedule.At(10, 0))
	require.NoError(t, err)

	// Moving a task onto a slot overlapping its own booking is allowed;
	// the old booking is replaced, not counted as a conflict.
	_, err = f.planner.ScheduleAt(context.Background(), task.ID, day, schedule.At(10, 30))
	require.NoError(t, err)

	plan, err := f.planner.PlanForDate(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, schedule.At(10, 30), plan[0].StartTime)
}

func TestScheduleAtUnknownTask(t *testing.T) {
	f := newFixture(t)
	_, err := f.planner.ScheduleAt(context.Background(), 999, testToday, schedule.At(9, 0))
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUnschedule(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, 30, testToday.AddDate(0, 0, 7))

	assert.ErrorIs(t, f.planner.Unschedule(context.Background(), task.ID), ErrNotScheduled)

	_, err := f.planner.AutoSchedule(context.Background(), task, nil)
	require.NoError(t, err)
	require.NoError(t, f.planner.Unschedule(context.Background(), task.ID))

	count, err := f.bookings.CountForTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestPlanForDateOrderedByStart(t *testing.T) {
	f := newFixture(t)
	day := testToday.AddDate(0, 0, 5)

	late := f.createTask(t, 30, testToday.AddDate(0, 0, 7))
	_, err := f.planner.ScheduleAt(context.Background(), late.ID, day, schedule.At(18, 0))
	require.NoError(t, err)
	early := f.createTask(t, 30, testToday.AddDate(0, 0, 7))
	_, err = f.planner.ScheduleAt(context.Background(), early.ID, day, schedule.At(6, 0))
	require.NoError(t, err)

	plan, err := f.planner.PlanForDate(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, early.ID, plan[0].TaskID)
	assert.Equal(t, schedule.At(6, 30), plan[0].EndTime)
	assert.Equal(t, late.ID, plan[1].TaskID)
}

func TestWeekPlanSnapsToMonday(t *testing.T) {
	f := newFixture(t)
	wednesday := testToday.AddDate(0, 0, 2)

	task := f.createTask(t, 60, testToday.AddDate(0, 0, 7))
	_, err := f.planner.ScheduleAt(context.Background(), task.ID, wednesday, schedule.At(17, 0))
	require.NoError(t, err)

	week, err := f.planner.WeekPlan(context.Background(), wednesday)
	require.NoError(t, err)
	require.Len(t, week, 7)

	// Exactly Monday through Sunday, nothing outside the week.
	for d := 0; d < 7; d++ {
		assert.Contains(t, week, testToday.AddDate(0, 0, d).Format("2006-01-02"))
	}

	mondayKey := testToday.Format("2006-01-02")
	assert.Empty(t, week[mondayKey])

	items := week[wednesday.Format("2006-01-02")]
	require.Len(t, items, 1)
	assert.Equal(t, task.ID, items[0].TaskID)
	assert.Equal(t, schedule.At(18, 0), items[0].EndTime)
}

func TestScheduleUnplannedSweep(t *testing.T) {
	f := newFixture(t)

	booked := f.createTask(t, 30, testToday.AddDate(0, 0, 7))
	_, err := f.planner.AutoSchedule(context.Background(), booked, nil)
	require.NoError(t, err)

	pending := f.createTask(t, 30, testToday.AddDate(0, 0, 7))

	require.NoError(t, f.planner.ScheduleUnplanned(context.Background()))

	count, err := f.bookings.CountForTask(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// The already-booked task keeps its single booking.
	count, err = f.bookings.CountForTask(context.Background(), booked.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
