package server

import (
	"time"

	"snapdare/internal/models"
	"snapdare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// challengeForm is the shared request shape for creating and editing
// challenges. Multipart requests may attach the challenge media under the
// "media" field; ends_at is RFC 3339.
type challengeForm struct {
	ChallengeTitle       string `json:"challenge_title" form:"challenge_title"`
	ChallengeDescription string `json:"challenge_description" form:"challenge_description"`
	ChallengeMedia       string `json:"challenge_media" form:"challenge_media"`
	EndsAt               string `json:"ends_at" form:"ends_at"`
}

// CreateChallenge handles POST /api/challenge/create
func (s *Server) CreateChallenge(c *fiber.Ctx) error {
	userID := requireUserID(c)

	var req challengeForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c, models.NewValidationError("Invalid request body"))
	}

	if req.EndsAt == "" {
		return models.RespondError(c, models.NewValidationError("ends_at is required"))
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return models.RespondError(c, models.NewValidationError("ends_at must be an RFC 3339 timestamp"))
	}

	if url, ok, err := s.uploadFromForm(c, "media", userID); err != nil {
		return models.RespondError(c, err)
	} else if ok {
		req.ChallengeMedia = url
	}

	challenge, err := s.challengeService.CreateChallenge(c.Context(), service.CreateChallengeInput{
		ChallengerID:         userID,
		ChallengeTitle:       req.ChallengeTitle,
		ChallengeDescription: req.ChallengeDescription,
		ChallengeMedia:       req.ChallengeMedia,
		EndsAt:               endsAt,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(challenge)
}

// EditChallenge handles PATCH /api/challenge/edit/:challengeId
func (s *Server) EditChallenge(c *fiber.Ctx) error {
	userID := requireUserID(c)
	challengeID, err := s.parseID(c, "challengeId")
	if err != nil {
		return nil
	}

	var req challengeForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c, models.NewValidationError("Invalid request body"))
	}

	var endsAt *time.Time
	if req.EndsAt != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.EndsAt)
		if parseErr != nil {
			return models.RespondError(c, models.NewValidationError("ends_at must be an RFC 3339 timestamp"))
		}
		endsAt = &parsed
	}

	if url, ok, err := s.uploadFromForm(c, "media", userID); err != nil {
		return models.RespondError(c, err)
	} else if ok {
		req.ChallengeMedia = url
	}

	challenge, err := s.challengeService.UpdateChallenge(c.Context(), service.UpdateChallengeInput{
		UserID:               userID,
		ChallengeID:          challengeID,
		ChallengeTitle:       req.ChallengeTitle,
		ChallengeDescription: req.ChallengeDescription,
		ChallengeMedia:       req.ChallengeMedia,
		EndsAt:               endsAt,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(challenge)
}

// DeleteChallenge handles DELETE /api/challenge/delete/:challengeId
func (s *Server) DeleteChallenge(c *fiber.Ctx) error {
	userID := requireUserID(c)
	challengeID, err := s.parseID(c, "challengeId")
	if err != nil {
		return nil
	}

	if err := s.challengeService.DeleteChallenge(c.Context(), userID, challengeID); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAllChallenges handles GET /api/challenge/getall
func (s *Server) GetAllChallenges(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	challenges, err := s.challengeService.ListChallenges(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(challenges)
}

// GetMyChallenges handles GET /api/challenge/getmy
func (s *Server) GetMyChallenges(c *fiber.Ctx) error {
	userID := requireUserID(c)
	page := parsePagination(c, 20)

	challenges, err := s.challengeService.ListMyChallenges(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(challenges)
}

// GetChallenge handles GET /api/challenge/:challengeId
func (s *Server) GetChallenge(c *fiber.Ctx) error {
	challengeID, err := s.parseID(c, "challengeId")
	if err != nil {
		return nil
	}

	challenge, err := s.challengeService.GetChallenge(c.Context(), challengeID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(challenge)
}
