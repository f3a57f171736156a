package service

import (
	"context"
	"strings"
	"testing"

	"snapdare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]*models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, comment *models.Comment) error {
			comment.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func TestAddComment(t *testing.T) {
	t.Run("Happy Path", func(t *testing.T) {
		comments := noopCommentRepo()
		var created *models.Comment
		comments.createFn = func(_ context.Context, comment *models.Comment) error {
			comment.ID = 3
			created = comment
			return nil
		}
		posts := noopPostRepo()
		var delta int
		posts.adjustCommentCountFn = func(_ context.Context, postID uint, d int) error {
			assert.Equal(t, uint(9), postID)
			delta = d
			return nil
		}
		svc := NewCommentService(comments, posts)

		comment, err := svc.AddComment(context.Background(), 2, 9, "  nice shot  ")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "nice shot", created.Body)
		assert.Equal(t, uint(3), comment.ID)
		assert.Equal(t, 1, delta)
	})

	t.Run("Empty Body", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.AddComment(context.Background(), 2, 9, "   ")
		assertErrCode(t, err, models.CodeValidation)
	})

	t.Run("Body Too Long", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.AddComment(context.Background(), 2, 9, strings.Repeat("a", 1001))
		assertErrCode(t, err, models.CodeValidation)
	})

	t.Run("Post Not Found", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewCommentService(noopCommentRepo(), posts)

		_, err := svc.AddComment(context.Background(), 2, 9, "hello")
		assertErrCode(t, err, models.CodeNotFound)
	})
}

func TestDeleteComment(t *testing.T) {
	t.Run("Comment Author Deletes", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 2, PostID: 9}, nil
		}
		posts := noopPostRepo()
		var delta int
		posts.adjustCommentCountFn = func(_ context.Context, _ uint, d int) error {
			delta = d
			return nil
		}
		svc := NewCommentService(comments, posts)

		require.NoError(t, svc.DeleteComment(context.Background(), 2, 3))
		assert.Equal(t, -1, delta)
	})

	t.Run("Post Author Deletes", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 7, PostID: 9}, nil
		}
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 2}, nil
		}
		svc := NewCommentService(comments, posts)

		require.NoError(t, svc.DeleteComment(context.Background(), 2, 3))
	})

	t.Run("Unrelated User", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 7, PostID: 9}, nil
		}
		comments.deleteFn = func(_ context.Context, _ uint) error {
			t.Fatal("Delete should not be reached for an unrelated user")
			return nil
		}
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 8}, nil
		}
		svc := NewCommentService(comments, posts)

		err := svc.DeleteComment(context.Background(), 2, 3)
		assertErrCode(t, err, models.CodeForbidden)
	})
}
