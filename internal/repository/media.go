package repository

import (
	"context"

	"snapdare/internal/models"

	"gorm.io/gorm"
)

// MediaRepository defines the interface for stored media metadata
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByHash(ctx context.Context, hash string) (*models.Media, error)
	ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*models.Media, error)
	Delete(ctx context.Context, id uint) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) GetByHash(ctx context.Context, hash string) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).Where("hash = ?", hash).First(&media).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*models.Media, error) {
	var media []*models.Media
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&media).Error
	return media, err
}

func (r *mediaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Media{}, id).Error
}
