package server

import (
	"snapdare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/follow
func (s *Server) Follow(c *fiber.Ctx) error {
	userID := requireUserID(c)

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondError(c, models.NewValidationError("user_id is required"))
	}

	if err := s.followService.Follow(c.Context(), userID, req.UserID); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"following": true})
}

// Unfollow handles DELETE /api/follow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	userID := requireUserID(c)

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondError(c, models.NewValidationError("user_id is required"))
	}

	if err := s.followService.Unfollow(c.Context(), userID, req.UserID); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"following": false})
}

// GetFollowers handles GET /api/follow/followers/:userId
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	followers, err := s.followService.ListFollowers(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(publicProfiles(followers))
}

// GetFollowing handles GET /api/follow/following/:userId
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	following, err := s.followService.ListFollowing(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(publicProfiles(following))
}

func publicProfiles(users []*models.User) []models.PublicProfile {
	profiles := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Public())
	}
	return profiles
}
