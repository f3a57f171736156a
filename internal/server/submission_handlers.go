package server

import (
	"snapdare/internal/models"
	"snapdare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitExistingPost handles POST /api/submit/existing/:challengeId
func (s *Server) SubmitExistingPost(c *fiber.Ctx) error {
	userID := requireUserID(c)
	challengeID, err := s.parseID(c, "challengeId")
	if err != nil {
		return nil
	}

	var req struct {
		PostID uint `json:"post_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.PostID == 0 {
		return models.RespondError(c, models.NewValidationError("post_id is required"))
	}

	submission, err := s.submissionService.SubmitExistingPost(c.Context(), service.SubmitExistingPostInput{
		SubmitterID: userID,
		ChallengeID: challengeID,
		PostID:      req.PostID,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(submission)
}

// SubmitNewPost handles POST /api/submit/new/:challengeId. The request is
// multipart: a media file plus an optional caption; the post is created and
// entered into the challenge in one step.
func (s *Server) SubmitNewPost(c *fiber.Ctx) error {
	userID := requireUserID(c)
	challengeID, err := s.parseID(c, "challengeId")
	if err != nil {
		return nil
	}

	var req postForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c, models.NewValidationError("Invalid request body"))
	}

	if url, ok, err := s.uploadFromForm(c, "media", userID); err != nil {
		return models.RespondError(c, err)
	} else if ok {
		req.Media = url
		req.MediaType = models.MediaTypeImage
	}

	submission, err := s.submissionService.CreatePostAndSubmit(c.Context(), service.CreatePostAndSubmitInput{
		SubmitterID: userID,
		ChallengeID: challengeID,
		Media:       req.Media,
		MediaType:   req.MediaType,
		Caption:     req.Caption,
		Tags:        req.formTags(),
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(submission)
}

// GetSubmissions handles GET /api/submit/get/:challengeId
func (s *Server) GetSubmissions(c *fiber.Ctx) error {
	challengeID, err := s.parseID(c, "challengeId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	submissions, err := s.submissionService.GetSubmissionsForChallenge(c.Context(), challengeID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(submissions)
}

// DeleteSubmission handles DELETE /api/submit/delete/:submissionId
func (s *Server) DeleteSubmission(c *fiber.Ctx) error {
	userID := requireUserID(c)
	submissionID, err := s.parseID(c, "submissionId")
	if err != nil {
		return nil
	}

	if err := s.submissionService.DeleteSubmission(c.Context(), userID, submissionID); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
