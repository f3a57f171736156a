package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"snapdare/internal/config"
	"snapdare/internal/models"
	"snapdare/internal/observability"
	"snapdare/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
	"gorm.io/gorm"
)

const (
	DefaultMediaUploadDir       = "/tmp/snapdare/uploads"
	DefaultMediaMaxUploadSizeMB = 10
	// Images are normalized to a single WebP master bounded by this edge length.
	MediaMaxEdge = 2048
	WebPQuality  = 80
)

type UploadMediaInput struct {
	OwnerID     uint
	Filename    string
	ContentType string
	Content     []byte
}

// MediaService handles image uploads: validation, normalization to WebP,
// content-addressed storage on disk and metadata persistence.
type MediaService struct {
	repo               repository.MediaRepository
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewMediaService(repo repository.MediaRepository, cfg *config.Config) *MediaService {
	uploadDir := DefaultMediaUploadDir
	maxUploadSizeMB := DefaultMediaMaxUploadSizeMB

	if cfg != nil {
		if cfg.MediaUploadDir != "" {
			uploadDir = cfg.MediaUploadDir
		}
		if cfg.MediaMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MediaMaxUploadSizeMB
		}
	}

	return &MediaService{
		repo:               repo,
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates and stores an image. Storage is content-addressed by the
// SHA-256 of the normalized bytes, so re-uploading the same image returns the
// existing record instead of writing a second copy.
func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (*models.Media, error) {
	if in.OwnerID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	normalized := resizeToFit(decoded, MediaMaxEdge, MediaMaxEdge)
	encoded, err := encodeWebP(normalized, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	sum := sha256.Sum256(encoded)
	hash := hex.EncodeToString(sum[:])

	if s.repo != nil {
		existing, getErr := s.repo.GetByHash(ctx, hash)
		if getErr == nil {
			return existing, nil
		}
		if !errors.Is(getErr, gorm.ErrRecordNotFound) {
			return nil, models.NewInternalError(getErr)
		}
	}

	rel := hash + ".webp"
	abs := filepath.Join(s.uploadDir, rel)
	if err := writeBytesToFile(abs, encoded); err != nil {
		return nil, models.NewInternalError(err)
	}

	bounds := normalized.Bounds()
	record := &models.Media{
		Hash:      hash,
		OwnerID:   in.OwnerID,
		Kind:      models.MediaTypeImage,
		Format:    "webp",
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		SizeBytes: int64(len(encoded)),
		Path:      rel,
	}
	if s.repo != nil {
		if err := s.repo.Create(ctx, record); err != nil {
			_ = os.Remove(abs)
			return nil, models.NewInternalError(err)
		}
	}

	observability.MediaUploads.WithLabelValues(record.Kind, record.Format).Inc()
	observability.MediaUploadBytes.Observe(float64(record.SizeBytes))
	return record, nil
}

// ServeURL returns the public path a stored media file is served from.
func (s *MediaService) ServeURL(media *models.Media) string {
	return "/media/" + media.Path
}

// ResolveForServing maps a hash from the URL to the file on disk.
func (s *MediaService) ResolveForServing(ctx context.Context, hash string) (*models.Media, string, error) {
	if !isValidMediaHash(hash) {
		return nil, "", models.NewValidationError("Invalid media hash")
	}
	media, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", models.NewNotFoundError("Media")
		}
		return nil, "", models.NewInternalError(err)
	}
	fullPath := filepath.Join(s.uploadDir, media.Path)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil, "", models.NewNotFoundError("Media")
		}
		return nil, "", models.NewInternalError(err)
	}
	return media, fullPath, nil
}

// isValidMediaHash checks that the hash is strictly lowercase hex (SHA-256
// style). This prevents path traversal via crafted hash parameters.
func isValidMediaHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
