package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vrasish/finalplanner/internal/model"
)

// UserRepository resolves user identity for the single-tenant setup.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// DefaultUserID returns the lowest existing user id, falling back to 1 when
// the table is empty. Callers that receive no explicit user id use this.
func (r *UserRepository) DefaultUserID(ctx context.Context) (uint, error) {
	var user model.User
	err := r.db.WithContext(ctx).Order("id ASC").First(&user).Error
	switch {
	case err == nil:
		return user.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 1, nil
	default:
		return 0, fmt.Errorf("find default user: %w", err)
	}
}

// Exists reports whether a user with the given id is present.
func (r *UserRepository) Exists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count user %d: %w", userID, err)
	}
	return count > 0, nil
}
