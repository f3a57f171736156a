package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"snapdare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestChallengeRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChallengeRepository(db)
	ctx := context.Background()

	challenge := &models.Challenge{
		ChallengerID:   1,
		ChallengeTitle: "golden hour only",
		Status:         models.ChallengeStatusOpen,
		EndsAt:         time.Now().Add(48 * time.Hour),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "challenges"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, challenge)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeRepository_Close(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChallengeRepository(db)
	ctx := context.Background()

	t.Run("transitions an open challenge", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "challenges" SET "status"=$1 WHERE id = $2 AND status = $3`)).
			WithArgs(models.ChallengeStatusClosed, 1, models.ChallengeStatusOpen).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		closed, err := repo.Close(ctx, 1)
		assert.NoError(t, err)
		assert.True(t, closed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already closed is a no-op", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "challenges" SET "status"=$1 WHERE id = $2 AND status = $3`)).
			WithArgs(models.ChallengeStatusClosed, 1, models.ChallengeStatusOpen).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		closed, err := repo.Close(ctx, 1)
		assert.NoError(t, err)
		assert.False(t, closed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestChallengeRepository_AdjustSubmissionCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChallengeRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "challenges" SET "submission_count"=GREATEST(submission_count + $1, 0) WHERE id = $2`)).
		WithArgs(-1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AdjustSubmissionCount(ctx, 3, -1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeRepository_RecountSubmissions(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChallengeRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "submissions" WHERE challenge_id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "challenges" SET "submission_count"=$1 WHERE id = $2`)).
		WithArgs(7, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	count, err := repo.RecountSubmissions(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
