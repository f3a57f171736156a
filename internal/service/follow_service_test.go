package service

import (
	"context"
	"testing"

	"snapdare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followFn        func(context.Context, uint, uint) (bool, error)
	unfollowFn      func(context.Context, uint, uint) (bool, error)
	isFollowingFn   func(context.Context, uint, uint) (bool, error)
	listFollowersFn func(context.Context, uint, int, int) ([]*models.User, error)
	listFollowingFn func(context.Context, uint, int, int) ([]*models.User, error)
}

func (s *followRepoStub) Follow(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.followFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Unfollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.unfollowFn(ctx, followerID, followingID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followingID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	return s.listFollowersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]*models.User, error) {
	return s.listFollowingFn(ctx, userID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unfollowFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listFollowersFn: func(_ context.Context, _ uint, _, _ int) ([]*models.User, error) {
			return nil, nil
		},
		listFollowingFn: func(_ context.Context, _ uint, _, _ int) ([]*models.User, error) {
			return nil, nil
		},
	}
}

func TestFollow(t *testing.T) {
	t.Run("Happy Path", func(t *testing.T) {
		users := noopUserRepo()
		var followerDelta, followingDelta int
		users.adjustFollowerCountFn = func(_ context.Context, userID uint, delta int) error {
			assert.Equal(t, uint(7), userID)
			followerDelta = delta
			return nil
		}
		users.adjustFollowingCountFn = func(_ context.Context, userID uint, delta int) error {
			assert.Equal(t, uint(2), userID)
			followingDelta = delta
			return nil
		}
		svc := NewFollowService(noopFollowRepo(), users)

		require.NoError(t, svc.Follow(context.Background(), 2, 7))
		assert.Equal(t, 1, followerDelta)
		assert.Equal(t, 1, followingDelta)
	})

	t.Run("Self Follow", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())
		err := svc.Follow(context.Background(), 2, 2)
		assertErrCode(t, err, models.CodeValidation)
	})

	t.Run("Target Not Found", func(t *testing.T) {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewFollowService(noopFollowRepo(), users)

		err := svc.Follow(context.Background(), 2, 7)
		assertErrCode(t, err, models.CodeNotFound)
	})

	t.Run("Repeated Follow Leaves Counters Alone", func(t *testing.T) {
		follows := noopFollowRepo()
		follows.followFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		users := noopUserRepo()
		users.adjustFollowerCountFn = func(_ context.Context, _ uint, _ int) error {
			t.Fatal("counters should not move when the edge already exists")
			return nil
		}
		svc := NewFollowService(follows, users)

		require.NoError(t, svc.Follow(context.Background(), 2, 7))
	})
}

func TestUnfollow(t *testing.T) {
	t.Run("Happy Path", func(t *testing.T) {
		users := noopUserRepo()
		var followerDelta, followingDelta int
		users.adjustFollowerCountFn = func(_ context.Context, _ uint, delta int) error {
			followerDelta = delta
			return nil
		}
		users.adjustFollowingCountFn = func(_ context.Context, _ uint, delta int) error {
			followingDelta = delta
			return nil
		}
		svc := NewFollowService(noopFollowRepo(), users)

		require.NoError(t, svc.Unfollow(context.Background(), 2, 7))
		assert.Equal(t, -1, followerDelta)
		assert.Equal(t, -1, followingDelta)
	})

	t.Run("Not Following Is A NoOp", func(t *testing.T) {
		follows := noopFollowRepo()
		follows.unfollowFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		users := noopUserRepo()
		users.adjustFollowerCountFn = func(_ context.Context, _ uint, _ int) error {
			t.Fatal("counters should not move when no edge was removed")
			return nil
		}
		svc := NewFollowService(follows, users)

		require.NoError(t, svc.Unfollow(context.Background(), 2, 7))
	})
}
