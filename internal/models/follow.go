package models

import "time"

// Follow represents an active follow edge from FollowerID to FollowingID.
// One row per pair; the unique index makes follow/unfollow race-safe.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"following_id"`
	Follower    User      `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following   User      `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
