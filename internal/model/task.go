package model

import "time"

// Task statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task is a single item in the planner. Deadline and DurationMinutes are
// immutable inputs to scheduling; the scheduled slot lives in Booking.
type Task struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint `gorm:"index"`
	Title           string
	Deadline        time.Time `gorm:"type:date"`
	DurationMinutes int
	Priority        int
	Status          string `gorm:"default:pending"`
	Category        string `gorm:"size:50;default:General"`
	CompletedAt     *time.Time
	CreatedAt       time.Time
}
