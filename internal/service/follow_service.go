package service

import (
	"context"

	"snapdare/internal/models"
	"snapdare/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates the follow edge. Repeated follows are no-ops; the follower
// and following counters move only when the edge is actually created.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uint) error {
	if followerID == followingID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return notFoundIfMissing(err, "User")
	}

	created, err := s.followRepo.Follow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	if err := s.userRepo.AdjustFollowerCount(ctx, followingID, 1); err != nil {
		return err
	}
	return s.userRepo.AdjustFollowingCount(ctx, followerID, 1)
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	removed, err := s.followRepo.Unfollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}
	if err := s.userRepo.AdjustFollowerCount(ctx, followingID, -1); err != nil {
		return err
	}
	return s.userRepo.AdjustFollowingCount(ctx, followerID, -1)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followingID)
}

func (s *FollowService) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, notFoundIfMissing(err, "User")
	}
	return s.followRepo.ListFollowers(ctx, userID, limit, offset)
}

func (s *FollowService) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, notFoundIfMissing(err, "User")
	}
	return s.followRepo.ListFollowing(ctx, userID, limit, offset)
}
