package service

import "errors"

// Sentinel errors the API layer maps to response codes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")
	ErrSlotConflict = errors.New("time slot conflicts with existing schedule")
	ErrNotScheduled = errors.New("task not found in schedule")
)
