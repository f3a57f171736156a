package models

import (
	"time"

	"gorm.io/gorm"
)

// Media types accepted for posts.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post visibility levels.
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
	VisibilityPrivate   = "private"
)

// Post represents a media post. LikeCount and CommentCount are denormalized
// counters kept in sync by the post repository; the likes and comments tables
// remain the source of truth for reconciliation.
//
// IsChallengeSubmission marks posts currently entered in a challenge; it is
// cleared when the submission is withdrawn. A flagged post cannot be deleted
// directly, the submission has to be withdrawn first.
type Post struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	AuthorID              uint           `gorm:"not null;index" json:"author_id"`
	Author                User           `gorm:"foreignKey:AuthorID" json:"author"`
	Media                 string         `gorm:"not null" json:"media"`
	MediaType             string         `gorm:"not null;default:image" json:"media_type"`
	Caption               string         `gorm:"size:2000" json:"caption"`
	Tags                  []string       `gorm:"serializer:json" json:"tags"`
	Visibility            string         `gorm:"not null;default:public" json:"visibility"`
	LikeCount             int            `gorm:"not null;default:0" json:"like_count"`
	CommentCount          int            `gorm:"not null;default:0" json:"comment_count"`
	IsChallengeSubmission bool           `gorm:"not null;default:false" json:"is_challenge_submission"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
