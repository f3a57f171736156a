package repository

import (
	"context"

	"snapdare/internal/cache"
	"snapdare/internal/models"

	"gorm.io/gorm"
)

// SubmissionRepository defines the interface for challenge submission data operations
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	GetByChallengeAndSubmitter(ctx context.Context, challengeID, submitterID uint) (*models.Submission, error)
	ListByChallenge(ctx context.Context, challengeID uint, limit, offset int) ([]*models.Submission, error)
	Delete(ctx context.Context, id uint) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create inserts the submission with ON CONFLICT DO NOTHING against the
// (submitter_id, challenge_id) unique index, so two concurrent submissions by
// the same user cannot both land. Returns whether the row was inserted; on
// success the submission struct is reloaded with its assigned ID.
func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO submissions (submitter_id, challenge_id, submitted_post_id, created_at)
		 VALUES (?, ?, ?, NOW())
		 ON CONFLICT (submitter_id, challenge_id) DO NOTHING`,
		submission.SubmitterID, submission.ChallengeID, submission.SubmittedPostID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := r.db.WithContext(ctx).
		Where("submitter_id = ? AND challenge_id = ?", submission.SubmitterID, submission.ChallengeID).
		First(submission).Error; err != nil {
		return true, err
	}
	cache.InvalidateChallenge(ctx, submission.ChallengeID)
	return true, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Submitter").
		Preload("SubmittedPost").
		First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) GetByChallengeAndSubmitter(ctx context.Context, challengeID, submitterID uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("challenge_id = ? AND submitter_id = ?", challengeID, submitterID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListByChallenge returns submissions newest first with the submitter and the
// submitted post (and its author) preloaded.
func (r *submissionRepository) ListByChallenge(ctx context.Context, challengeID uint, limit, offset int) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := r.db.WithContext(ctx).
		Preload("Submitter").
		Preload("SubmittedPost").
		Preload("SubmittedPost.Author").
		Where("challenge_id = ?", challengeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) Delete(ctx context.Context, id uint) error {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Submission{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateChallenge(ctx, submission.ChallengeID)
	return nil
}
