// Package service contains the application's business logic.
package service

import (
	"context"
	"strings"
	"time"

	"snapdare/internal/models"
	"snapdare/internal/observability"
	"snapdare/internal/repository"
)

const (
	maxChallengeTitleLen       = 150
	maxChallengeDescriptionLen = 5000
)

type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
	now           func() time.Time
}

type CreateChallengeInput struct {
	ChallengerID         uint
	ChallengeTitle       string
	ChallengeDescription string
	ChallengeMedia       string
	EndsAt               time.Time
}

type UpdateChallengeInput struct {
	UserID               uint
	ChallengeID          uint
	ChallengeTitle       string
	ChallengeDescription string
	ChallengeMedia       string
	EndsAt               *time.Time
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		isAdmin:       isAdmin,
		now:           time.Now,
	}
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, in CreateChallengeInput) (*models.Challenge, error) {
	title := strings.TrimSpace(in.ChallengeTitle)
	if title == "" {
		return nil, models.NewValidationError("Challenge title is required")
	}
	if len(title) > maxChallengeTitleLen {
		return nil, models.NewValidationError("Challenge title too long (max 150 characters)")
	}
	if len(in.ChallengeDescription) > maxChallengeDescriptionLen {
		return nil, models.NewValidationError("Challenge description too long (max 5000 characters)")
	}
	if !in.EndsAt.After(s.now()) {
		return nil, models.NewValidationError("Challenge deadline must be in the future")
	}

	challenge := &models.Challenge{
		ChallengerID:         in.ChallengerID,
		ChallengeTitle:       title,
		ChallengeDescription: in.ChallengeDescription,
		ChallengeMedia:       in.ChallengeMedia,
		Status:               models.ChallengeStatusOpen,
		EndsAt:               in.EndsAt,
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// GetChallenge loads a challenge and applies the lazy expiry transition: a
// challenge read after its deadline is flipped to closed before being
// returned, so callers never observe an open challenge past its endsAt.
func (s *ChallengeService) GetChallenge(ctx context.Context, id uint) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfMissing(err, "Challenge")
	}
	if err := s.applyExpiry(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) ListChallenges(ctx context.Context, limit, offset int) ([]*models.Challenge, error) {
	challenges, err := s.challengeRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, c := range challenges {
		if err := s.applyExpiry(ctx, c); err != nil {
			return nil, err
		}
	}
	return challenges, nil
}

func (s *ChallengeService) ListMyChallenges(ctx context.Context, userID uint, limit, offset int) ([]*models.Challenge, error) {
	challenges, err := s.challengeRepo.ListByChallenger(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, c := range challenges {
		if err := s.applyExpiry(ctx, c); err != nil {
			return nil, err
		}
	}
	return challenges, nil
}

func (s *ChallengeService) UpdateChallenge(ctx context.Context, in UpdateChallengeInput) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, in.ChallengeID)
	if err != nil {
		return nil, notFoundIfMissing(err, "Challenge")
	}
	if challenge.ChallengerID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own challenges")
	}
	if err := s.applyExpiry(ctx, challenge); err != nil {
		return nil, err
	}
	// Edits freeze once the deadline passes, whatever the stored status says.
	if !challenge.EndsAt.After(s.now()) {
		return nil, models.NewValidationError("Challenge cannot be edited after its deadline")
	}

	if title := strings.TrimSpace(in.ChallengeTitle); title != "" {
		if len(title) > maxChallengeTitleLen {
			return nil, models.NewValidationError("Challenge title too long (max 150 characters)")
		}
		challenge.ChallengeTitle = title
	}
	if in.ChallengeDescription != "" {
		if len(in.ChallengeDescription) > maxChallengeDescriptionLen {
			return nil, models.NewValidationError("Challenge description too long (max 5000 characters)")
		}
		challenge.ChallengeDescription = in.ChallengeDescription
	}
	if in.ChallengeMedia != "" {
		challenge.ChallengeMedia = in.ChallengeMedia
	}
	if in.EndsAt != nil {
		if !in.EndsAt.After(s.now()) {
			return nil, models.NewValidationError("Challenge deadline must be in the future")
		}
		challenge.EndsAt = *in.EndsAt
	}

	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) DeleteChallenge(ctx context.Context, userID, challengeID uint) error {
	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return notFoundIfMissing(err, "Challenge")
	}
	if challenge.ChallengerID != userID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("You can only delete your own challenges")
		}
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own challenges")
		}
	}
	return s.challengeRepo.Delete(ctx, challengeID)
}

// applyExpiry closes the challenge if its deadline has passed. The repository
// Close is guarded on status so concurrent readers race harmlessly.
func (s *ChallengeService) applyExpiry(ctx context.Context, challenge *models.Challenge) error {
	if challenge.Status != models.ChallengeStatusOpen || !challenge.ExpiredAt(s.now()) {
		return nil
	}
	closed, err := s.challengeRepo.Close(ctx, challenge.ID)
	if err != nil {
		return err
	}
	if closed {
		observability.ChallengesClosed.Inc()
	}
	challenge.Status = models.ChallengeStatusClosed
	return nil
}
