package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vrasish/finalplanner/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByDeadline returns every task ordered by deadline ascending.
func (r *TaskRepository) ListByDeadline(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("deadline ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListUnscheduled returns pending tasks that have no booking yet.
func (r *TaskRepository) ListUnscheduled(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusPending).
		Where("id NOT IN (?)", r.db.Model(&model.Booking{}).Select("task_id")).
		Order("deadline ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Delete removes a task together with its bookings in one transaction.
func (r *TaskRepository) Delete(ctx context.Context, taskID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&model.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, taskID).Error
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
