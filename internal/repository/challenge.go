package repository

import (
	"context"

	"snapdare/internal/cache"
	"snapdare/internal/models"

	"gorm.io/gorm"
)

// ChallengeRepository defines the interface for challenge data operations
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id uint) (*models.Challenge, error)
	List(ctx context.Context, limit, offset int) ([]*models.Challenge, error)
	ListByChallenger(ctx context.Context, challengerID uint, limit, offset int) ([]*models.Challenge, error)
	Update(ctx context.Context, challenge *models.Challenge) error
	Delete(ctx context.Context, id uint) error
	Close(ctx context.Context, id uint) (bool, error)
	AdjustSubmissionCount(ctx context.Context, id uint, delta int) error
	RecountSubmissions(ctx context.Context, id uint) (int64, error)
}

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	err := r.db.WithContext(ctx).Create(challenge).Error
	if err == nil {
		cache.InvalidateChallengeLists(ctx)
	}
	return err
}

func (r *challengeRepository) GetByID(ctx context.Context, id uint) (*models.Challenge, error) {
	var challenge models.Challenge
	err := cache.Aside(ctx, cache.ChallengeKey(id), &challenge, cache.ChallengeTTL, func() error {
		return r.db.WithContext(ctx).Preload("Challenger").First(&challenge, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// List returns challenges newest first.
func (r *challengeRepository) List(ctx context.Context, limit, offset int) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := r.db.WithContext(ctx).
		Preload("Challenger").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&challenges).Error
	return challenges, err
}

func (r *challengeRepository) ListByChallenger(ctx context.Context, challengerID uint, limit, offset int) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := r.db.WithContext(ctx).
		Preload("Challenger").
		Where("challenger_id = ?", challengerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&challenges).Error
	return challenges, err
}

func (r *challengeRepository) Update(ctx context.Context, challenge *models.Challenge) error {
	if err := r.db.WithContext(ctx).Save(challenge).Error; err != nil {
		return err
	}
	cache.InvalidateChallenge(ctx, challenge.ID)
	cache.InvalidateChallengeLists(ctx)
	return nil
}

func (r *challengeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Challenge{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateChallenge(ctx, id)
	cache.InvalidateChallengeLists(ctx)
	return nil
}

// Close flips an open challenge to closed. The status guard in the WHERE
// clause makes the transition idempotent under concurrent calls; the return
// value reports whether this call performed the transition.
func (r *challengeRepository) Close(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Where("id = ? AND status = ?", id, models.ChallengeStatusOpen).
		UpdateColumn("status", models.ChallengeStatusClosed)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateChallenge(ctx, id)
		cache.InvalidateChallengeLists(ctx)
		return true, nil
	}
	return false, nil
}

func (r *challengeRepository) AdjustSubmissionCount(ctx context.Context, id uint, delta int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Where("id = ?", id).
		UpdateColumn("submission_count", gorm.Expr("GREATEST(submission_count + ?, 0)", delta)).Error
	if err == nil {
		cache.InvalidateChallenge(ctx, id)
		cache.InvalidateChallengeLists(ctx)
	}
	return err
}

// RecountSubmissions recomputes submission_count from the submissions table
// and writes it back. Returns the authoritative count.
func (r *challengeRepository) RecountSubmissions(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("challenge_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	err := r.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Where("id = ?", id).
		UpdateColumn("submission_count", count).Error
	if err == nil {
		cache.InvalidateChallenge(ctx, id)
	}
	return count, err
}
