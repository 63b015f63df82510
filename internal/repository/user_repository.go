package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"careminder/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByUUID(ctx context.Context, userUUID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("uuid = ?", userUUID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateFCMToken stores the device token reminders are delivered to. An empty
// token opts the user out of pushes.
func (r *UserRepository) UpdateFCMToken(ctx context.Context, userUUID, token string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("uuid = ?", userUUID).Update("fcm_token", token)
	if res.Error != nil {
		return fmt.Errorf("update fcm token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
