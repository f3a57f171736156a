package service

import (
	"context"
	"errors"
	"testing"

	"snapdare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// challengeRepoStub is a stub for repository.ChallengeRepository.
type challengeRepoStub struct {
	createFn             func(context.Context, *models.Challenge) error
	getByIDFn            func(context.Context, uint) (*models.Challenge, error)
	listFn               func(context.Context, int, int) ([]*models.Challenge, error)
	listByChallengerFn   func(context.Context, uint, int, int) ([]*models.Challenge, error)
	updateFn             func(context.Context, *models.Challenge) error
	deleteFn             func(context.Context, uint) error
	closeFn              func(context.Context, uint) (bool, error)
	adjustSubmissionsFn  func(context.Context, uint, int) error
	recountSubmissionsFn func(context.Context, uint) (int64, error)
}

func (s *challengeRepoStub) Create(ctx context.Context, c *models.Challenge) error {
	return s.createFn(ctx, c)
}
func (s *challengeRepoStub) GetByID(ctx context.Context, id uint) (*models.Challenge, error) {
	return s.getByIDFn(ctx, id)
}
func (s *challengeRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Challenge, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *challengeRepoStub) ListByChallenger(ctx context.Context, challengerID uint, limit, offset int) ([]*models.Challenge, error) {
	return s.listByChallengerFn(ctx, challengerID, limit, offset)
}
func (s *challengeRepoStub) Update(ctx context.Context, c *models.Challenge) error {
	return s.updateFn(ctx, c)
}
func (s *challengeRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *challengeRepoStub) Close(ctx context.Context, id uint) (bool, error) {
	return s.closeFn(ctx, id)
}
func (s *challengeRepoStub) AdjustSubmissionCount(ctx context.Context, id uint, delta int) error {
	return s.adjustSubmissionsFn(ctx, id, delta)
}
func (s *challengeRepoStub) RecountSubmissions(ctx context.Context, id uint) (int64, error) {
	return s.recountSubmissionsFn(ctx, id)
}

func noopChallengeRepo() *challengeRepoStub {
	return &challengeRepoStub{
		createFn:  func(_ context.Context, _ *models.Challenge) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Challenge, error) { return &models.Challenge{}, nil },
		listFn: func(_ context.Context, _, _ int) ([]*models.Challenge, error) {
			return nil, nil
		},
		listByChallengerFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Challenge, error) {
			return nil, nil
		},
		updateFn:             func(_ context.Context, _ *models.Challenge) error { return nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
		closeFn:              func(_ context.Context, _ uint) (bool, error) { return true, nil },
		adjustSubmissionsFn:  func(_ context.Context, _ uint, _ int) error { return nil },
		recountSubmissionsFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// submissionRepoStub is a stub for repository.SubmissionRepository.
type submissionRepoStub struct {
	createFn                     func(context.Context, *models.Submission) (bool, error)
	getByIDFn                    func(context.Context, uint) (*models.Submission, error)
	getByChallengeAndSubmitterFn func(context.Context, uint, uint) (*models.Submission, error)
	listByChallengeFn            func(context.Context, uint, int, int) ([]*models.Submission, error)
	deleteFn                     func(context.Context, uint) error
}

func (s *submissionRepoStub) Create(ctx context.Context, sub *models.Submission) (bool, error) {
	return s.createFn(ctx, sub)
}
func (s *submissionRepoStub) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	return s.getByIDFn(ctx, id)
}
func (s *submissionRepoStub) GetByChallengeAndSubmitter(ctx context.Context, challengeID, submitterID uint) (*models.Submission, error) {
	return s.getByChallengeAndSubmitterFn(ctx, challengeID, submitterID)
}
func (s *submissionRepoStub) ListByChallenge(ctx context.Context, challengeID uint, limit, offset int) ([]*models.Submission, error) {
	return s.listByChallengeFn(ctx, challengeID, limit, offset)
}
func (s *submissionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopSubmissionRepo() *submissionRepoStub {
	return &submissionRepoStub{
		createFn: func(_ context.Context, sub *models.Submission) (bool, error) {
			sub.ID = 1
			return true, nil
		},
		getByIDFn: func(_ context.Context, _ uint) (*models.Submission, error) {
			return &models.Submission{}, nil
		},
		getByChallengeAndSubmitterFn: func(_ context.Context, _, _ uint) (*models.Submission, error) {
			return nil, gorm.ErrRecordNotFound
		},
		listByChallengeFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Submission, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn             func(context.Context, *models.Post) error
	getByIDFn            func(context.Context, uint, uint) (*models.Post, error)
	getByAuthorFn        func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	feedFn               func(context.Context, int, int, uint) ([]*models.Post, error)
	updateFn             func(context.Context, *models.Post) error
	deleteFn             func(context.Context, uint) error
	markFn               func(context.Context, uint, bool) error
	likeFn               func(context.Context, uint, uint) (bool, error)
	unlikeFn             func(context.Context, uint, uint) (bool, error)
	adjustCommentCountFn func(context.Context, uint, int) error
	recountCountersFn    func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByAuthorFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *postRepoStub) Feed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.feedFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) MarkAsChallengeSubmission(ctx context.Context, postID uint, flagged bool) error {
	return s.markFn(ctx, postID, flagged)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) AdjustCommentCount(ctx context.Context, postID uint, delta int) error {
	return s.adjustCommentCountFn(ctx, postID, delta)
}
func (s *postRepoStub) RecountCounters(ctx context.Context, postID uint) error {
	return s.recountCountersFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			post.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getByAuthorFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		feedFn:               func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:             func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
		markFn:               func(_ context.Context, _ uint, _ bool) error { return nil },
		likeFn:               func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeFn:             func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		adjustCommentCountFn: func(_ context.Context, _ uint, _ int) error { return nil },
		recountCountersFn:    func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn               func(context.Context, *models.User) error
	getByIDFn              func(context.Context, uint) (*models.User, error)
	getByUsernameFn        func(context.Context, string) (*models.User, error)
	getByEmailFn           func(context.Context, string) (*models.User, error)
	updateFn               func(context.Context, *models.User) error
	adjustPostCountFn      func(context.Context, uint, int) error
	adjustFollowerCountFn  func(context.Context, uint, int) error
	adjustFollowingCountFn func(context.Context, uint, int) error
	recountPostsFn         func(context.Context, uint) (int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) AdjustPostCount(ctx context.Context, userID uint, delta int) error {
	return s.adjustPostCountFn(ctx, userID, delta)
}
func (s *userRepoStub) AdjustFollowerCount(ctx context.Context, userID uint, delta int) error {
	return s.adjustFollowerCountFn(ctx, userID, delta)
}
func (s *userRepoStub) AdjustFollowingCount(ctx context.Context, userID uint, delta int) error {
	return s.adjustFollowingCountFn(ctx, userID, delta)
}
func (s *userRepoStub) RecountPosts(ctx context.Context, userID uint) (int64, error) {
	return s.recountPostsFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:               func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:              func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn:        func(_ context.Context, _ string) (*models.User, error) { return nil, gorm.ErrRecordNotFound },
		getByEmailFn:           func(_ context.Context, _ string) (*models.User, error) { return nil, gorm.ErrRecordNotFound },
		updateFn:               func(_ context.Context, _ *models.User) error { return nil },
		adjustPostCountFn:      func(_ context.Context, _ uint, _ int) error { return nil },
		adjustFollowerCountFn:  func(_ context.Context, _ uint, _ int) error { return nil },
		adjustFollowingCountFn: func(_ context.Context, _ uint, _ int) error { return nil },
		recountPostsFn:         func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// assertErrCode asserts that err is an AppError with the given code.
func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
