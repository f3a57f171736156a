package repository

import (
	"context"
	"regexp"
	"testing"

	"snapdare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{AuthorID: 1, Media: "/media/abc.webp", MediaType: models.MediaTypeImage, Caption: "rooftop view"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Like(t *testing.T) {
	ctx := context.Background()

	t.Run("first like inserts and bumps the counter", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes`)).
			WithArgs(uint(2), uint(7)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "like_count"=GREATEST(like_count + $1, 0) WHERE id = $2 AND "posts"."deleted_at" IS NULL`)).
			WithArgs(1, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		liked, err := repo.Like(ctx, 2, 7)
		assert.NoError(t, err)
		assert.True(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat like is a no-op and leaves the counter alone", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes`)).
			WithArgs(uint(2), uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		liked, err := repo.Like(ctx, 2, 7)
		assert.NoError(t, err)
		assert.False(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_Unlike(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the like and decrements", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
			WithArgs(2, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "like_count"=GREATEST(like_count + $1, 0) WHERE id = $2 AND "posts"."deleted_at" IS NULL`)).
			WithArgs(-1, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		removed, err := repo.Unlike(ctx, 2, 7)
		assert.NoError(t, err)
		assert.True(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unlike without a like is a no-op", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
			WithArgs(2, 7).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		removed, err := repo.Unlike(ctx, 2, 7)
		assert.NoError(t, err)
		assert.False(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_MarkAsChallengeSubmission(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "is_challenge_submission"=$1 WHERE id = $2 AND "posts"."deleted_at" IS NULL`)).
		WithArgs(true, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.MarkAsChallengeSubmission(ctx, 9, true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
