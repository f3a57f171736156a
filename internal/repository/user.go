// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"snapdare/internal/cache"
	"snapdare/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	AdjustPostCount(ctx context.Context, userID uint, delta int) error
	AdjustFollowerCount(ctx context.Context, userID uint, delta int) error
	AdjustFollowingCount(ctx context.Context, userID uint, delta int) error
	RecountPosts(ctx context.Context, userID uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// adjustCounter applies a guarded delta to a denormalized counter column so it
// can never go below zero.
func (r *userRepository) adjustCounter(ctx context.Context, userID uint, column string, delta int) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta)).Error
	if err == nil {
		cache.InvalidateUser(ctx, userID)
	}
	return err
}

func (r *userRepository) AdjustPostCount(ctx context.Context, userID uint, delta int) error {
	return r.adjustCounter(ctx, userID, "post_count", delta)
}

func (r *userRepository) AdjustFollowerCount(ctx context.Context, userID uint, delta int) error {
	return r.adjustCounter(ctx, userID, "follower_count", delta)
}

func (r *userRepository) AdjustFollowingCount(ctx context.Context, userID uint, delta int) error {
	return r.adjustCounter(ctx, userID, "following_count", delta)
}

// RecountPosts recomputes post_count from the posts table and writes it back.
// Returns the authoritative count.
func (r *userRepository) RecountPosts(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("post_count", count).Error
	if err == nil {
		cache.InvalidateUser(ctx, userID)
	}
	return count, err
}
