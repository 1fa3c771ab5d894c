package model

import (
	"time"

	"github.com/vrasish/finalplanner/internal/schedule"
)

// Booking places a task on the daily plan. A task has at most one live
// booking; the scheduler replaces any prior booking when it commits a new
// slot. The booked interval is [StartTime, StartTime+task.DurationMinutes).
type Booking struct {
	ID        uint               `gorm:"primaryKey"`
	UserID    uint               `gorm:"index"`
	TaskID    uint               `gorm:"index"`
	PlanDate  time.Time          `gorm:"type:date;index"`
	StartTime schedule.TimeOfDay `gorm:"type:text"`
	TaskOrder int                `gorm:"default:1"`
}
