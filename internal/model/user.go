package model

import "time"

// User owns tasks and bookings. A single default user is seeded on first
// start; authentication is handled outside this service.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:50;uniqueIndex"`
	PasswordHash string `gorm:"size:255"`
	Role         string `gorm:"size:20;default:user"`
	CreatedAt    time.Time
}
