package service

import (
	"context"
	"strings"

	"snapdare/internal/models"
	"snapdare/internal/repository"
)

const maxCommentLen = 1000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) AddComment(ctx context.Context, userID, postID uint, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if len(body) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, notFoundIfMissing(err, "Post")
	}

	comment := &models.Comment{
		UserID: userID,
		PostID: postID,
		Body:   body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.postRepo.AdjustCommentCount(ctx, postID, 1); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, notFoundIfMissing(err, "Post")
	}
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}

// DeleteComment removes a comment. The comment author and the post author
// may both delete it.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return notFoundIfMissing(err, "Comment")
	}

	if comment.UserID != userID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID, userID)
		if err != nil {
			return notFoundIfMissing(err, "Post")
		}
		if post.AuthorID != userID {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	return s.postRepo.AdjustCommentCount(ctx, comment.PostID, -1)
}
