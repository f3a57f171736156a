// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"time"

	"snapdare/internal/models"

	"gorm.io/gorm"
)

// MediaRepoStub is an in-memory media repository implementation for tests.
type MediaRepoStub struct {
	items  map[string]*models.Media
	nextID uint
}

// NewMediaRepoStub creates an in-memory media repository stub for tests.
func NewMediaRepoStub() *MediaRepoStub {
	return &MediaRepoStub{items: make(map[string]*models.Media), nextID: 1}
}

// Create stores media metadata in-memory, keyed by content hash.
func (s *MediaRepoStub) Create(_ context.Context, media *models.Media) error {
	if media.ID == 0 {
		media.ID = s.nextID
		s.nextID++
	}
	media.CreatedAt = time.Now().UTC()
	s.items[media.Hash] = media
	return nil
}

// GetByHash fetches stored media by content hash.
func (s *MediaRepoStub) GetByHash(_ context.Context, hash string) (*models.Media, error) {
	item, ok := s.items[hash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

// ListByOwner returns all stored media for one owner, ignoring pagination.
func (s *MediaRepoStub) ListByOwner(_ context.Context, ownerID uint, _, _ int) ([]*models.Media, error) {
	var out []*models.Media
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	return out, nil
}

// Delete removes stored media by row ID.
func (s *MediaRepoStub) Delete(_ context.Context, id uint) error {
	for hash, item := range s.items {
		if item.ID == id {
			delete(s.items, hash)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// Len reports how many media records the stub holds.
func (s *MediaRepoStub) Len() int {
	return len(s.items)
}

// TinyPNG returns an in-memory PNG byte slice with the requested dimensions.
func TinyPNG(t interface {
	Helper()
	Fatalf(string, ...any)
}, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
