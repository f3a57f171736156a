package server

import (
	"strings"

	"snapdare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ServeMedia handles GET /media/:file, where file is "<hash>.webp". The hash
// is validated against the media store before anything touches the disk, so
// crafted paths never escape the upload directory.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	file := c.Params("file")
	hash := strings.TrimSuffix(file, ".webp")

	media, fullPath, err := s.mediaService.ResolveForServing(c.Context(), hash)
	if err != nil {
		return models.RespondError(c, err)
	}

	c.Set("Content-Type", "image/"+media.Format)
	c.Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.SendFile(fullPath)
}
