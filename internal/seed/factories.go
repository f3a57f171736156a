// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"snapdare/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// pastTime returns a timestamp spread over the last maxDays days so seeded
// feeds look lived-in instead of all landing on the same second.
func (f *Factory) pastTime(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.r.Intn(maxDays)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample user. All seeded users share
// the password "password123". Optional override functions may modify the
// generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		AuthorID:   user.ID,
		Media:      fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		MediaType:  models.MediaTypeImage,
		Caption:    gofakeit.Sentence(8),
		Tags:       []string{gofakeit.HipsterWord(), gofakeit.HipsterWord()},
		Visibility: models.VisibilityPublic,
		CreatedAt:  f.pastTime(90),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateChallenge constructs and persists a challenge issued by the given
// user. Roughly a third of generated challenges are already past their
// deadline and closed, so listings show a mix of states.
func (f *Factory) CreateChallenge(challenger *models.User, overrides ...func(*models.Challenge)) (*models.Challenge, error) {
	challenge := &models.Challenge{
		ChallengerID:         challenger.ID,
		ChallengeTitle:       gofakeit.Sentence(4),
		ChallengeDescription: gofakeit.Paragraph(1, 2, 8, "\n"),
		ChallengeMedia:       fmt.Sprintf("https://picsum.photos/seed/dare-%s/800/800", gofakeit.UUID()),
		Status:               models.ChallengeStatusOpen,
		EndsAt:               time.Now().Add(time.Duration(1+f.r.Intn(14*24)) * time.Hour),
		CreatedAt:            f.pastTime(30),
	}
	if f.r.Intn(3) == 0 {
		challenge.EndsAt = time.Now().Add(-time.Duration(1+f.r.Intn(7*24)) * time.Hour)
		challenge.Status = models.ChallengeStatusClosed
	}

	for _, override := range overrides {
		override(challenge)
	}

	if err := f.db.Create(challenge).Error; err != nil {
		return nil, err
	}
	return challenge, nil
}

// CreateSubmission enters the given post into the given challenge and flags
// the post as a challenge entry.
func (f *Factory) CreateSubmission(challenge *models.Challenge, user *models.User, post *models.Post) (*models.Submission, error) {
	submission := &models.Submission{
		SubmitterID:     user.ID,
		ChallengeID:     challenge.ID,
		SubmittedPostID: post.ID,
	}
	if err := f.db.Create(submission).Error; err != nil {
		return nil, err
	}
	err := f.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("is_challenge_submission", true).Error
	return submission, err
}

// CreateComment constructs and persists a sample comment on the provided
// post authored by the provided user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		UserID: user.ID,
		PostID: post.ID,
		Body:   gofakeit.Sentence(8),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from user on post.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}
	return f.db.Create(like).Error
}

// CreateFollow persists a follow edge from follower to followee.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	follow := &models.Follow{
		FollowerID:  follower.ID,
		FollowingID: followee.ID,
	}
	return f.db.Create(follow).Error
}
