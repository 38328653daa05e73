package profiles

import (
	"context"
	"errors"

	"skybook/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*users.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (*users.Profile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*users.Profile, error) {
	var profile users.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repository) Update(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (*users.Profile, error) {
	var profile users.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return err
		}
		if err := tx.Model(&profile).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&profile).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}
