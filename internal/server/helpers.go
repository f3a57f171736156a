package server

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode"

	"snapdare/internal/models"
	"snapdare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds limit/offset derived from page/limit query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts ?page and ?limit query parameters with the given
// default limit. Pages are 1-based.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	return Pagination{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "challengeId" -> "challenge ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		return strings.ToLower(strings.Join(splitCamel(prefix), " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// requireUserID reads the authenticated user ID placed in locals by the auth
// middleware.
func requireUserID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// optionalUserID reads the user ID if OptionalAuth resolved one; anonymous
// requests get zero.
func optionalUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("is_admin").First(&user, userID).Error; err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// uploadFromForm stores the multipart file under the given field through the
// media service and returns its public URL. ok is false when the field is
// absent, which is not an error for handlers that accept pre-uploaded URLs.
func (s *Server) uploadFromForm(c *fiber.Ctx, field string, ownerID uint) (string, bool, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", false, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", false, models.NewValidationError("Could not read uploaded file")
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(file, content); err != nil {
		return "", false, models.NewValidationError("Could not read uploaded file")
	}

	media, err := s.mediaService.Upload(c.Context(), service.UploadMediaInput{
		OwnerID:     ownerID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return "", false, err
	}
	return s.mediaService.ServeURL(media), true, nil
}
