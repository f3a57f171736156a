package server

import (
	"encoding/json"
	"strings"

	"snapdare/internal/models"
	"snapdare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postForm is the shared request shape for creating and editing posts.
// Multipart requests may attach the media file under the "media" field;
// JSON requests pass a previously uploaded media URL instead.
type postForm struct {
	Media      string   `json:"media" form:"media"`
	MediaType  string   `json:"media_type" form:"media_type"`
	Caption    string   `json:"caption" form:"caption"`
	Tags       []string `json:"tags"`
	TagsRaw    string   `json:"-" form:"tags"`
	Visibility string   `json:"visibility" form:"visibility"`
}

// formTags resolves tags from either the JSON array or the form-encoded
// variant (JSON array string or comma-separated list).
func (f *postForm) formTags() []string {
	if len(f.Tags) > 0 {
		return f.Tags
	}
	raw := strings.TrimSpace(f.TagsRaw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err == nil {
			return tags
		}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// CreatePost handles POST /api/post/create
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := requireUserID(c)

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

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:   userID,
		Media:      req.Media,
		MediaType:  req.MediaType,
		Caption:    req.Caption,
		Tags:       req.formTags(),
		Visibility: req.Visibility,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// EditPost handles PATCH /api/post/edit/:postId
func (s *Server) EditPost(c *fiber.Ctx) error {
	userID := requireUserID(c)
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Caption    *string  `json:"caption"`
		Tags       []string `json:"tags"`
		Visibility string   `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:     userID,
		PostID:     postID,
		Caption:    req.Caption,
		Tags:       req.Tags,
		Visibility: req.Visibility,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// GetFeed handles GET /api/post/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	userID := optionalUserID(c)

	posts, err := s.postService.GetFeed(c.Context(), page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetMyPosts handles GET /api/post/my-posts
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID := requireUserID(c)
	page := parsePagination(c, 20)

	posts, err := s.postService.GetUserPosts(c.Context(), userID, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/post/:postId
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID, optionalUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/post/delete/:postId
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := requireUserID(c)
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), userID, postID); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/post/like/:postId
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := requireUserID(c)
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.LikePost(c.Context(), userID, postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// UnlikePost handles POST /api/post/unlike/:postId
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	userID := requireUserID(c)
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnlikePost(c.Context(), userID, postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}
