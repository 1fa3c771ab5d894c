package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vrasish/finalplanner/internal/model"
	"github.com/vrasish/finalplanner/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	UserID          uint
	Title           string
	DurationMinutes int
	Deadline        time.Time
	Category        string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, userRepo: userRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if input.Deadline.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", ErrInvalidInput)
	}

	exists, err := s.userRepo.Exists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, input.UserID)
	}

	task := model.Task{
		UserID:          input.UserID,
		Title:           input.Title,
		Deadline:        input.Deadline,
		DurationMinutes: input.DurationMinutes,
		Priority:        1,
		Status:          model.StatusPending,
		Category:        input.Category,
	}
	if task.Category == "" {
		task.Category = "General"
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.ListByDeadline(ctx)
}

func (s *TaskService) GetTask(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task and its booking, if any.
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint) error {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}
