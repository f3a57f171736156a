package models

import (
	"time"
)

// Challenge statuses. The transition is one-way: open -> closed.
const (
	ChallengeStatusOpen   = "open"
	ChallengeStatusClosed = "closed"
)

// Challenge is a time-boxed call for submissions with a hard deadline.
// SubmissionCount is denormalized and mutated only through the challenge
// repository's AdjustSubmissionCount.
type Challenge struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	ChallengerID         uint      `gorm:"not null;index" json:"challenger_id"`
	Challenger           User      `gorm:"foreignKey:ChallengerID" json:"challenger"`
	ChallengeTitle       string    `gorm:"not null" json:"challenge_title"`
	ChallengeDescription string    `gorm:"type:text;not null" json:"challenge_description"`
	ChallengeMedia       string    `json:"challenge_media"`
	SubmissionCount      int       `gorm:"not null;default:0" json:"submission_count"`
	Status               string    `gorm:"not null;default:open" json:"status"`
	EndsAt               time.Time `gorm:"not null" json:"ends_at"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ExpiredAt reports whether the challenge's deadline has passed at the given
// instant. EndsAt itself counts as expired: a submission must arrive strictly
// before the deadline.
func (c *Challenge) ExpiredAt(now time.Time) bool {
	return !c.EndsAt.After(now)
}
