// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user account in the Snapdare application.
// PostCount, FollowerCount and FollowingCount are denormalized counters;
// they are mutated only through the user repository's Adjust* methods.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"unique;not null" json:"username"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	Bio            string         `json:"bio"`
	Avatar         string         `json:"avatar"`
	PostCount      int            `gorm:"not null;default:0" json:"post_count"`
	FollowerCount  int            `gorm:"not null;default:0" json:"follower_count"`
	FollowingCount int            `gorm:"not null;default:0" json:"following_count"`
	IsAdmin        bool           `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublicProfile is the subset of User exposed when embedding the author or
// submitter of another entity.
type PublicProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Public returns the user's public profile fields.
func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}
