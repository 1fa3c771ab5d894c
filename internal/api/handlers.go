package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vrasish/finalplanner/internal/repository"
	"github.com/vrasish/finalplanner/internal/schedule"
	"github.com/vrasish/finalplanner/internal/service"
)

const dateFormat = "2006-01-02"

// Handler serves the planner's HTTP surface.
type Handler struct {
	taskSvc  *service.TaskService
	planner  *service.PlannerService
	userRepo *repository.UserRepository
}

func NewHandler(taskSvc *service.TaskService, planner *service.PlannerService, userRepo *repository.UserRepository) *Handler {
	return &Handler{taskSvc: taskSvc, planner: planner, userRepo: userRepo}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "API is running"})
}

type createTaskRequest struct {
	Title        string `json:"title"`
	Duration     int    `json:"duration"`
	DueDate      string `json:"due_date"`
	ScheduleDate string `json:"schedule_date"`
	Category     string `json:"category"`
	UserID       uint   `json:"user_id"`
}

// createTask adds a task and immediately tries to place it on the calendar.
// A failed placement is reported in the payload, not as an HTTP error: the
// task exists either way.
func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dueDate, err := ParseFlexibleDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid date format: %s. Use M/D/YY or YYYY-MM-DD", req.DueDate))
		return
	}

	ctx := r.Context()
	userID := req.UserID
	if userID == 0 {
		userID, err = h.userRepo.DefaultUserID(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "resolve user")
			return
		}
	}

	task, err := h.taskSvc.CreateTask(ctx, service.TaskInput{
		UserID:          userID,
		Title:           req.Title,
		DurationMinutes: req.Duration,
		Deadline:        dueDate,
		Category:        req.Category,
	})
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("create task: %v", err)
		writeError(w, http.StatusInternalServerError, "error adding task")
		return
	}

	// An unparseable schedule_date is treated as absent, not rejected; the
	// task falls back to plain auto-scheduling.
	var preferred *time.Time
	if req.ScheduleDate != "" {
		if d, err := ParseFlexibleDate(req.ScheduleDate); err == nil {
			preferred = &d
		}
	}

	result, err := h.planner.AutoSchedule(ctx, task, preferred)
	if err != nil {
		log.Printf("auto-schedule task id=%d: %v", task.ID, err)
		writeError(w, http.StatusInternalServerError, "error scheduling task")
		return
	}

	resp := map[string]any{
		"message":       "Task added and scheduled successfully",
		"task_id":       task.ID,
		"title":         task.Title,
		"duration":      task.DurationMinutes,
		"due_date":      dueDate.Format(dateFormat),
		"scheduled":     result.Scheduled,
		"schedule_date": nil,
		"schedule_time": nil,
	}
	if result.Scheduled {
		resp["schedule_date"] = result.Date.Format(dateFormat)
		resp["schedule_time"] = result.Time.String()
	} else {
		resp["message"] = "Task added, " + result.Message
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskSvc.ListTasks(r.Context())
	if err != nil {
		log.Printf("list tasks: %v", err)
		writeError(w, http.StatusInternalServerError, "error fetching tasks")
		return
	}
	items := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, map[string]any{
			"id":       t.ID,
			"title":    t.Title,
			"due_date": t.Deadline.Local().Format(dateFormat),
			"duration": t.DurationMinutes,
			"status":   t.Status,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.taskSvc.DeleteTask(r.Context(), taskID)
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case err != nil:
		log.Printf("delete task id=%d: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "error deleting task")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
	}
}

type scheduleRequest struct {
	TaskID       uint   `json:"task_id"`
	ScheduleDate string `json:"schedule_date"`
	StartTime    string `json:"start_time"`
}

// scheduleTask pins a task to an exact slot. No search is attempted: an
// overlap is a hard conflict.
func (h *Handler) scheduleTask(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := ParseFlexibleDate(req.ScheduleDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid date/time format: %v", err))
		return
	}
	start, err := schedule.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid date/time format: %v", err))
		return
	}

	end, err := h.planner.ScheduleAt(r.Context(), req.TaskID, date, start)
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrSlotConflict):
		writeError(w, http.StatusBadRequest, "Time slot conflicts with existing schedule")
	case err != nil:
		log.Printf("schedule task id=%d: %v", req.TaskID, err)
		writeError(w, http.StatusInternalServerError, "error scheduling task")
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message":    "Task scheduled successfully",
			"start_time": start.String(),
			"end_time":   end.String(),
		})
	}
}

func (h *Handler) dayPlan(w http.ResponseWriter, r *http.Request) {
	date, err := ParseFlexibleDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format. Use M/D/YY or YYYY-MM-DD")
		return
	}
	items, err := h.planner.PlanForDate(r.Context(), date)
	if err != nil {
		log.Printf("plan for %s: %v", date.Format(dateFormat), err)
		writeError(w, http.StatusInternalServerError, "error fetching schedule")
		return
	}
	writeJSON(w, http.StatusOK, planItemsJSON(items))
}

func (h *Handler) weekPlan(w http.ResponseWriter, r *http.Request) {
	weekStart, err := ParseFlexibleDate(mux.Vars(r)["week_start"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format")
		return
	}
	week, err := h.planner.WeekPlan(r.Context(), weekStart)
	if err != nil {
		log.Printf("week plan from %s: %v", weekStart.Format(dateFormat), err)
		writeError(w, http.StatusInternalServerError, "error fetching weekly schedule")
		return
	}
	resp := make(map[string][]map[string]any, len(week))
	for day, items := range week {
		resp[day] = planItemsJSON(items)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) unschedule(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "task_id")
	if !ok {
		return
	}
	err := h.planner.Unschedule(r.Context(), taskID)
	switch {
	case errors.Is(err, service.ErrNotScheduled):
		writeError(w, http.StatusNotFound, "Task not found in schedule")
	case err != nil:
		log.Printf("unschedule task id=%d: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "error unscheduling task")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Task unscheduled successfully"})
	}
}

func planItemsJSON(items []service.PlanItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"task_id":    item.TaskID,
			"title":      item.Title,
			"start_time": item.StartTime.String(),
			"end_time":   item.EndTime.String(),
			"duration":   item.DurationMinutes,
			"due_date":   item.DueDate.Format(dateFormat),
		})
	}
	return out
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
