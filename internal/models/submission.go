package models

import "time"

// Submission links one user's one post to one challenge.
//
// The unique (challenge_id, submitter_id) index enforces the one-submission-
// per-user-per-challenge rule at the storage layer, so concurrent submits
// cannot both pass the service-level pre-check and insert.
type Submission struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SubmitterID     uint      `gorm:"not null;uniqueIndex:idx_submission_challenge_user" json:"submitter_id"`
	Submitter       User      `gorm:"foreignKey:SubmitterID" json:"submitter"`
	ChallengeID     uint      `gorm:"not null;uniqueIndex:idx_submission_challenge_user;index" json:"challenge_id"`
	SubmittedPostID uint      `gorm:"not null;index" json:"submitted_post_id"`
	SubmittedPost   Post      `gorm:"foreignKey:SubmittedPostID" json:"submitted_post"`
	CreatedAt       time.Time `json:"created_at"`
}
