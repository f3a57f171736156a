package models

import "time"

// Media is a stored upload, addressed by the sha256 of its content.
// Posts and challenges reference media by the public path, not by row id,
// so re-uploading identical bytes is a cheap no-op.
type Media struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Hash      string    `gorm:"size:64;uniqueIndex;not null" json:"hash"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Kind      string    `gorm:"not null" json:"kind"` // image or video
	Format    string    `gorm:"not null" json:"format"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	SizeBytes int64     `json:"size_bytes"`
	Path      string    `gorm:"not null" json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
