package service

import (
	"context"
	"log"
	"time"

	"github.com/vrasish/finalplanner/internal/model"
	"github.com/vrasish/finalplanner/internal/repository"
	"github.com/vrasish/finalplanner/internal/schedule"
)

// noSlotMessage is the normal negative outcome of a slot search.
const noSlotMessage = "no available time slot found"

// ScheduleResult reports the outcome of an auto-schedule attempt. Scheduled
// false with an empty error means the search window was exhausted, which is
// a normal result.
type ScheduleResult struct {
	Scheduled bool
	Date      time.Time
	Time      schedule.TimeOfDay
	Message   string
}

// PlanItem is one entry of a daily plan view, end time computed from the
// task's duration.
type PlanItem struct {
	TaskID          uint
	Title           string
	StartTime       schedule.TimeOfDay
	EndTime         schedule.TimeOfDay
	DurationMinutes int
	DueDate         time.Time
}

// PlannerService places tasks into free calendar slots and maintains the
// one-live-booking-per-task invariant.
type PlannerService struct {
	taskSvc     *TaskService
	bookingRepo *repository.BookingRepository
	now         func() time.Time
}

func NewPlannerService(taskSvc *TaskService, bookingRepo *repository.BookingRepository) *PlannerService {
	return &PlannerService{
		taskSvc:     taskSvc,
		bookingRepo: bookingRepo,
		now:         time.Now,
	}
}

// AutoSchedule finds the earliest open slot for the task and commits it,
// replacing any prior booking. When preferred is set the search anchors
// there first; if that window yields nothing the default anchor is tried
// without surfacing an error.
func (s *PlannerService) AutoSchedule(ctx context.Context, task *model.Task, preferred *time.Time) (ScheduleResult, error) {
	src := s.bookingRepo.ExcludingTask(task.ID)

	if preferred != nil {
		day, start, ok, err := schedule.FindSlot(ctx, *preferred, task.DurationMinutes, src)
		if err != nil {
			return ScheduleResult{}, err
		}
		if ok {
			return s.commit(ctx, task, day, start)
		}
		// No room near the preferred date; fall through to the default anchor.
	}

	day, start, ok, err := schedule.FindSlot(ctx, s.defaultAnchor(task), task.DurationMinutes, src)
	if err != nil {
		return ScheduleResult{}, err
	}
	if !ok {
		return ScheduleResult{Scheduled: false, Message: noSlotMessage}, nil
	}
	return s.commit(ctx, task, day, start)
}

// defaultAnchor starts the search within a week of the deadline when the
// deadline is far out, and never in the past.
func (s *PlannerService) defaultAnchor(task *model.Task) time.Time {
	today := schedule.DateOnly(s.now())
	// Deadlines read back from storage may be in UTC; take the local
	// calendar day.
	deadline := schedule.DateOnly(task.Deadline.Local())
	if !deadline.After(today) {
		return today
	}
	weekBefore := deadline.AddDate(0, 0, -7)
	if weekBefore.After(today) {
		return weekBefore
	}
	return today
}

func (s *PlannerService) commit(ctx context.Context, task *model.Task, day time.Time, start schedule.TimeOfDay) (ScheduleResult, error) {
	booking := model.Booking{
		UserID:    task.UserID,
		TaskID:    task.ID,
		PlanDate:  day,
		StartTime: start,
		TaskOrder: 1,
	}
	if err := s.bookingRepo.Replace(ctx, &booking); err != nil {
		return ScheduleResult{}, err
	}
	log.Printf("[info] scheduled task id=%d date=%s time=%s", task.ID, day.Format("2006-01-02"), start)
	return ScheduleResult{Scheduled: true, Date: schedule.DateOnly(day), Time: start}, nil
}

// ScheduleAt places a task at an exact slot. Unlike AutoSchedule it never
// searches: an overlap with another task's booking is ErrSlotConflict and
// leaves the plan untouched. Returns the computed end time on success.
func (s *PlannerService) ScheduleAt(ctx context.Context, taskID uint, date time.Time, start schedule.TimeOfDay) (schedule.TimeOfDay, error) {
	task, err := s.taskSvc.GetTask(ctx, taskID)
	if err != nil {
		return schedule.TimeOfDay{}, err
	}

	candidate := schedule.NewInterval(start, task.DurationMinutes)
	existing, err := s.bookingRepo.ExcludingTask(taskID).IntervalsOn(ctx, date)
	if err != nil {
		return schedule.TimeOfDay{}, err
	}
	if candidate.OverlapsAny(existing) {
		return schedule.TimeOfDay{}, ErrSlotConflict
	}

	if _, err := s.commit(ctx, task, date, start); err != nil {
		return schedule.TimeOfDay{}, err
	}
	return candidate.EndTime(), nil
}

// Unschedule removes a task's booking while keeping the task itself.
func (s *PlannerService) Unschedule(ctx context.Context, taskID uint) error {
	removed, err := s.bookingRepo.DeleteForTask(ctx, taskID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotScheduled
	}
	return nil
}

// PlanForDate returns the committed plan for one date, ordered by start
// time.
func (s *PlannerService) PlanForDate(ctx context.Context, date time.Time) ([]PlanItem, error) {
	entries, err := s.bookingRepo.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	items := make([]PlanItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, toPlanItem(e))
	}
	return items, nil
}

// WeekPlan returns the plan for the week containing weekStart, snapped back
// to Monday, keyed by date. Days without bookings map to empty slices.
func (s *PlannerService) WeekPlan(ctx context.Context, weekStart time.Time) (map[string][]PlanItem, error) {
	monday := schedule.DateOnly(weekStart)
	daysSinceMonday := (int(monday.Weekday()) + 6) % 7
	monday = monday.AddDate(0, 0, -daysSinceMonday)
	sunday := monday.AddDate(0, 0, 6)

	entries, err := s.bookingRepo.ListRange(ctx, monday, sunday)
	if err != nil {
		return nil, err
	}

	week := make(map[string][]PlanItem, 7)
	for d := 0; d < 7; d++ {
		week[monday.AddDate(0, 0, d).Format("2006-01-02")] = []PlanItem{}
	}
	for _, e := range entries {
		// The driver may hand stored dates back in UTC; convert before
		// taking the calendar day. Entries keying outside the prebuilt
		// seven days are dropped so the week keeps its shape.
		key := schedule.DateOnly(e.PlanDate.Local()).Format("2006-01-02")
		if _, ok := week[key]; !ok {
			continue
		}
		week[key] = append(week[key], toPlanItem(e))
	}
	return week, nil
}

// ScheduleUnplanned auto-schedules every pending task that has no booking.
// Tasks the search cannot place are left unscheduled and only logged; they
// will be retried on the next sweep.
func (s *PlannerService) ScheduleUnplanned(ctx context.Context) error {
	tasks, err := s.taskSvc.taskRepo.ListUnscheduled(ctx)
	if err != nil {
		return err
	}
	for i := range tasks {
		task := &tasks[i]
		result, err := s.AutoSchedule(ctx, task, nil)
		if err != nil {
			return err
		}
		if !result.Scheduled {
			log.Printf("[info] sweep: no slot for task id=%d", task.ID)
		}
	}
	return nil
}

func toPlanItem(e repository.PlanEntry) PlanItem {
	iv := schedule.NewInterval(e.StartTime, e.DurationMinutes)
	return PlanItem{
		TaskID:          e.TaskID,
		Title:           e.Title,
		StartTime:       e.StartTime,
		EndTime:         iv.EndTime(),
		DurationMinutes: e.DurationMinutes,
		DueDate:         e.Deadline.Local(),
	}
}
