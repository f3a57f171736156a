package service

import (
	"context"
	"log/slog"
	"time"

	"snapdare/internal/middleware"
	"snapdare/internal/models"
	"snapdare/internal/observability"
	"snapdare/internal/repository"

	"gorm.io/gorm"
)

// ReconcileService repairs denormalized counters that drifted from their
// source tables (crashes between the row write and the counter write, manual
// data fixes). It is cheap enough to run periodically in-process.
type ReconcileService struct {
	db            *gorm.DB
	challengeRepo repository.ChallengeRepository
	userRepo      repository.UserRepository
	postRepo      repository.PostRepository
}

func NewReconcileService(
	db *gorm.DB,
	challengeRepo repository.ChallengeRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
) *ReconcileService {
	return &ReconcileService{
		db:            db,
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		postRepo:      postRepo,
	}
}

// Run performs one full reconciliation pass.
func (s *ReconcileService) Run(ctx context.Context) error {
	if err := s.reconcileChallenges(ctx); err != nil {
		return err
	}
	return s.reconcileUsers(ctx)
}

// StartPeriodic runs reconciliation on a fixed interval until ctx is done.
func (s *ReconcileService) StartPeriodic(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Run(ctx); err != nil {
					middleware.Logger.ErrorContext(ctx, "counter reconciliation failed",
						slog.String("error", err.Error()))
				}
			}
		}
	}()
}

func (s *ReconcileService) reconcileChallenges(ctx context.Context) error {
	var rows []struct {
		ID              uint
		SubmissionCount int
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Challenge{}).
		Select("id", "submission_count").
		Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		count, err := s.challengeRepo.RecountSubmissions(ctx, row.ID)
		if err != nil {
			return err
		}
		if int(count) != row.SubmissionCount {
			observability.CounterRepairs.WithLabelValues("challenge.submission_count").Inc()
			middleware.Logger.WarnContext(ctx, "repaired drifted submission counter",
				slog.Any("challenge_id", row.ID),
				slog.Int("stored", row.SubmissionCount),
				slog.Int64("actual", count))
		}
	}
	return nil
}

func (s *ReconcileService) reconcileUsers(ctx context.Context) error {
	var rows []struct {
		ID        uint
		PostCount int
	}
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "post_count").
		Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		count, err := s.userRepo.RecountPosts(ctx, row.ID)
		if err != nil {
			return err
		}
		if int(count) != row.PostCount {
			observability.CounterRepairs.WithLabelValues("user.post_count").Inc()
			middleware.Logger.WarnContext(ctx, "repaired drifted post counter",
				slog.Any("user_id", row.ID),
				slog.Int("stored", row.PostCount),
				slog.Int64("actual", count))
		}
	}
	return nil
}

// ReconcilePost repairs one post's like and comment counters.
func (s *ReconcileService) ReconcilePost(ctx context.Context, postID uint) error {
	return s.postRepo.RecountCounters(ctx, postID)
}
