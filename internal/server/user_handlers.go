package server

import (
	"snapdare/internal/models"
	"snapdare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/user/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := requireUserID(c)

	user, err := s.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PATCH /api/user/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := requireUserID(c)

	var req struct {
		Username string  `json:"username"`
		Bio      *string `json:"bio"`
		Avatar   *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/user/:userId
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetProfile(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}
