package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"snapdare/internal/models"
	"snapdare/internal/observability"
	"snapdare/internal/repository"

	"gorm.io/gorm"
)

// submissionRepos bundles the repositories a submission operation touches,
// so transactional paths can rebind them to the transaction handle.
type submissionRepos struct {
	submissions repository.SubmissionRepository
	challenges  repository.ChallengeRepository
	posts       repository.PostRepository
	users       repository.UserRepository
}

// SubmissionService implements challenge submissions: entering a challenge
// with an existing post or a freshly created one, listing entries, and
// withdrawing them. Multi-write paths run in a database transaction when a
// *gorm.DB is provided; unit tests may construct the service with a nil db
// and stub repositories.
type SubmissionService struct {
	db    *gorm.DB
	repos submissionRepos
	now   func() time.Time
}

type SubmitExistingPostInput struct {
	SubmitterID uint
	ChallengeID uint
	PostID      uint
}

type CreatePostAndSubmitInput struct {
	SubmitterID uint
	ChallengeID uint
	Media       string
	MediaType   string
	Caption     string
	Tags        []string
}

func NewSubmissionService(
	db *gorm.DB,
	submissionRepo repository.SubmissionRepository,
	challengeRepo repository.ChallengeRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *SubmissionService {
	return &SubmissionService{
		db: db,
		repos: submissionRepos{
			submissions: submissionRepo,
			challenges:  challengeRepo,
			posts:       postRepo,
			users:       userRepo,
		},
		now: time.Now,
	}
}

// inTx runs fn against transaction-bound repositories. With a nil db the
// repositories are used as-is, without transactional guarantees.
func (s *SubmissionService) inTx(ctx context.Context, fn func(r submissionRepos) error) error {
	if s.db == nil {
		return fn(s.repos)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(submissionRepos{
			submissions: repository.NewSubmissionRepository(tx),
			challenges:  repository.NewChallengeRepository(tx),
			posts:       repository.NewPostRepository(tx),
			users:       repository.NewUserRepository(tx),
		})
	})
}

// openChallenge loads the challenge and rejects the write if its deadline has
// passed, closing it on the way out so later reads see the final status.
func (s *SubmissionService) openChallenge(ctx context.Context, challengeID uint) (*models.Challenge, error) {
	challenge, err := s.repos.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, notFoundIfMissing(err, "Challenge")
	}
	if challenge.Status == models.ChallengeStatusOpen && challenge.ExpiredAt(s.now()) {
		closed, err := s.repos.challenges.Close(ctx, challenge.ID)
		if err != nil {
			return nil, err
		}
		if closed {
			observability.ChallengesClosed.Inc()
		}
		challenge.Status = models.ChallengeStatusClosed
	}
	if challenge.Status != models.ChallengeStatusOpen {
		observability.SubmissionAttempts.WithLabelValues("expired").Inc()
		return nil, models.NewExpiredError("Challenge has ended")
	}
	return challenge, nil
}

// SubmitExistingPost enters one of the submitter's existing posts into a
// challenge. The post is checked before the challenge, so a bad post
// reference fails without touching challenge state. The post keeps its
// plain-post identity; only posts created for a submission carry the
// challenge flag. The one-entry-per-user rule is enforced by the submissions
// unique index, so two concurrent submissions cannot both land.
func (s *SubmissionService) SubmitExistingPost(ctx context.Context, in SubmitExistingPostInput) (*models.Submission, error) {
	post, err := s.repos.posts.GetByID(ctx, in.PostID, in.SubmitterID)
	if err != nil {
		return nil, notFoundIfMissing(err, "Post")
	}
	if post.AuthorID != in.SubmitterID {
		observability.SubmissionAttempts.WithLabelValues("forbidden").Inc()
		return nil, models.NewForbiddenError("You can only submit your own posts")
	}

	challenge, err := s.openChallenge(ctx, in.ChallengeID)
	if err != nil {
		return nil, err
	}

	submission := &models.Submission{
		SubmitterID:     in.SubmitterID,
		ChallengeID:     challenge.ID,
		SubmittedPostID: post.ID,
	}
	err = s.inTx(ctx, func(r submissionRepos) error {
		inserted, err := r.submissions.Create(ctx, submission)
		if err != nil {
			return err
		}
		if !inserted {
			observability.SubmissionAttempts.WithLabelValues("duplicate").Inc()
			return models.NewConflictError("You have already submitted to this challenge")
		}
		return r.challenges.AdjustSubmissionCount(ctx, challenge.ID, 1)
	})
	if err != nil {
		if !isAppError(err) {
			observability.SubmissionAttempts.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	observability.SubmissionAttempts.WithLabelValues("accepted").Inc()
	submission.SubmittedPost = *post
	return submission, nil
}

// CreatePostAndSubmit creates a new post and enters it into the challenge in
// one step. The challenge and duplicate checks run before the post is
// created, so a rejected submission never leaves an orphan post behind; the
// unique index still backstops a concurrent duplicate inside the transaction.
func (s *SubmissionService) CreatePostAndSubmit(ctx context.Context, in CreatePostAndSubmitInput) (*models.Submission, error) {
	challenge, err := s.openChallenge(ctx, in.ChallengeID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repos.submissions.GetByChallengeAndSubmitter(ctx, challenge.ID, in.SubmitterID); err == nil {
		observability.SubmissionAttempts.WithLabelValues("duplicate").Inc()
		return nil, models.NewConflictError("You have already submitted to this challenge")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if strings.TrimSpace(in.Media) == "" {
		return nil, models.NewValidationError("Media is required")
	}
	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = models.MediaTypeImage
	}
	if mediaType != models.MediaTypeImage && mediaType != models.MediaTypeVideo {
		return nil, models.NewValidationError("Invalid media_type")
	}
	if len(in.Caption) > 2000 {
		return nil, models.NewValidationError("Caption too long (max 2000 characters)")
	}

	post := &models.Post{
		AuthorID:   in.SubmitterID,
		Media:      in.Media,
		MediaType:  mediaType,
		Caption:    in.Caption,
		Tags:       in.Tags,
		Visibility: models.VisibilityPublic,
	}
	submission := &models.Submission{
		SubmitterID: in.SubmitterID,
		ChallengeID: challenge.ID,
	}
	err = s.inTx(ctx, func(r submissionRepos) error {
		if err := r.posts.Create(ctx, post); err != nil {
			return err
		}
		if post.AuthorID != in.SubmitterID {
			observability.SubmissionAttempts.WithLabelValues("forbidden").Inc()
			return models.NewForbiddenError("You can only submit your own posts")
		}
		if err := r.users.AdjustPostCount(ctx, in.SubmitterID, 1); err != nil {
			return err
		}
		if err := r.posts.MarkAsChallengeSubmission(ctx, post.ID, true); err != nil {
			return err
		}
		post.IsChallengeSubmission = true
		submission.SubmittedPostID = post.ID
		inserted, err := r.submissions.Create(ctx, submission)
		if err != nil {
			return err
		}
		if !inserted {
			// Concurrent duplicate slipped past the pre-check; roll everything back
			observability.SubmissionAttempts.WithLabelValues("duplicate").Inc()
			return models.NewConflictError("You have already submitted to this challenge")
		}
		return r.challenges.AdjustSubmissionCount(ctx, challenge.ID, 1)
	})
	if err != nil {
		if !isAppError(err) {
			observability.SubmissionAttempts.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	observability.SubmissionAttempts.WithLabelValues("accepted").Inc()
	submission.SubmittedPost = *post
	return submission, nil
}

// GetSubmissionsForChallenge lists a challenge's entries, newest first.
func (s *SubmissionService) GetSubmissionsForChallenge(ctx context.Context, challengeID uint, limit, offset int) ([]*models.Submission, error) {
	if _, err := s.repos.challenges.GetByID(ctx, challengeID); err != nil {
		return nil, notFoundIfMissing(err, "Challenge")
	}
	return s.repos.submissions.ListByChallenge(ctx, challengeID, limit, offset)
}

// DeleteSubmission withdraws a submission. Only the submitter may withdraw.
// A post that was created for the submission is deleted with it and the
// author's post count drops; a pre-existing post that was merely repurposed
// survives untouched. The challenge's submission count decrements either way.
func (s *SubmissionService) DeleteSubmission(ctx context.Context, userID, submissionID uint) error {
	submission, err := s.repos.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return notFoundIfMissing(err, "Submission")
	}
	if submission.SubmitterID != userID {
		return models.NewForbiddenError("You can only delete your own submissions")
	}
	post, err := s.repos.posts.GetByID(ctx, submission.SubmittedPostID, userID)
	if err != nil {
		return notFoundIfMissing(err, "Post")
	}

	return s.inTx(ctx, func(r submissionRepos) error {
		if err := r.submissions.Delete(ctx, submission.ID); err != nil {
			return err
		}
		if post.IsChallengeSubmission {
			if err := r.posts.Delete(ctx, post.ID); err != nil {
				return err
			}
			if err := r.users.AdjustPostCount(ctx, post.AuthorID, -1); err != nil {
				return err
			}
		}
		return r.challenges.AdjustSubmissionCount(ctx, submission.ChallengeID, -1)
	})
}

func isAppError(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr)
}
