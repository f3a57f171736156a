package service

import (
	"context"
	"strings"

	"snapdare/internal/models"
	"snapdare/internal/repository"
)

const maxCaptionLen = 2000

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	AuthorID   uint
	Media      string
	MediaType  string
	Caption    string
	Tags       []string
	Visibility string
}

type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Caption    *string
	Tags       []string
	Visibility string
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		isAdmin:  isAdmin,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Media) == "" {
		return nil, models.NewValidationError("Media is required")
	}

	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = models.MediaTypeImage
	}
	if mediaType != models.MediaTypeImage && mediaType != models.MediaTypeVideo {
		return nil, models.NewValidationError("Invalid media_type")
	}

	if len(in.Caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2000 characters)")
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	switch visibility {
	case models.VisibilityPublic, models.VisibilityFollowers, models.VisibilityPrivate:
		// valid
	default:
		return nil, models.NewValidationError("Invalid visibility")
	}

	post := &models.Post{
		AuthorID:   in.AuthorID,
		Media:      in.Media,
		MediaType:  mediaType,
		Caption:    in.Caption,
		Tags:       in.Tags,
		Visibility: visibility,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	if s.userRepo != nil {
		if err := s.userRepo.AdjustPostCount(ctx, in.AuthorID, 1); err != nil {
			return nil, err
		}
	}
	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, notFoundIfMissing(err, "Post")
	}
	return post, nil
}

func (s *PostService) GetFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.Feed(ctx, limit, offset, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByAuthor(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, notFoundIfMissing(err, "Post")
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Caption != nil {
		if len(*in.Caption) > maxCaptionLen {
			return nil, models.NewValidationError("Caption too long (max 2000 characters)")
		}
		post.Caption = *in.Caption
	}
	if in.Tags != nil {
		post.Tags = in.Tags
	}
	if in.Visibility != "" {
		switch in.Visibility {
		case models.VisibilityPublic, models.VisibilityFollowers, models.VisibilityPrivate:
			post.Visibility = in.Visibility
		default:
			return nil, models.NewValidationError("Invalid visibility")
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return notFoundIfMissing(err, "Post")
	}

	if post.AuthorID != userID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	// Posts entered in a challenge keep their submission consistent: the
	// submission must be withdrawn before the post can go.
	if post.IsChallengeSubmission {
		return models.NewConflictError("Post is entered in a challenge; withdraw the submission first")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	if s.userRepo != nil {
		return s.userRepo.AdjustPostCount(ctx, post.AuthorID, -1)
	}
	return nil
}

// LikePost records a like. Liking twice is rejected rather than ignored; the
// repository keeps the denormalized like_count in step.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, notFoundIfMissing(err, "Post")
	}

	created, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, models.NewConflictError("You have already liked this post")
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

// UnlikePost removes a like. Unliking a post that was never liked is rejected.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, notFoundIfMissing(err, "Post")
	}

	removed, err := s.postRepo.Unlike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewConflictError("You have not liked this post")
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}
