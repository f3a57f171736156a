package repository

import (
	"context"

	"snapdare/internal/cache"
	"snapdare/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Feed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	MarkAsChallengeSubmission(ctx context.Context, postID uint, flagged bool) error
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	AdjustCommentCount(ctx context.Context, postID uint, delta int) error
	RecountCounters(ctx context.Context, postID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// applyLiked adds an EXISTS subquery resolving whether the current viewer has
// liked each post, in the same query.
func (r *postRepository) applyLiked(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select("posts.*, EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select("posts.*, false as liked")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	var err error
	if currentUserID == 0 {
		// Anonymous reads share one cache entry
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyLiked(r.db.WithContext(ctx), 0).
				Preload("Author").
				First(&post, id).Error
		})
	} else {
		err = r.applyLiked(r.db.WithContext(ctx), currentUserID).
			Preload("Author").
			First(&post, id).Error
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyLiked(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Feed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyLiked(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Where("visibility = ?", models.VisibilityPublic).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) MarkAsChallengeSubmission(ctx context.Context, postID uint, flagged bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("is_challenge_submission", flagged).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

// Like inserts the like with ON CONFLICT DO NOTHING so concurrent double-taps
// cannot error or double-count. Returns whether a row was actually inserted;
// the denormalized like_count is bumped only in that case.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if err := r.adjustLikeCount(ctx, postID, 1); err != nil {
		return true, err
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if err := r.adjustLikeCount(ctx, postID, -1); err != nil {
		return true, err
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}

func (r *postRepository) adjustLikeCount(ctx context.Context, postID uint, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("GREATEST(like_count + ?, 0)", delta)).Error
}

func (r *postRepository) AdjustCommentCount(ctx context.Context, postID uint, delta int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("GREATEST(comment_count + ?, 0)", delta)).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

// RecountCounters recomputes like_count and comment_count from their source
// tables. Used by the reconciliation job to repair drift.
func (r *postRepository) RecountCounters(ctx context.Context, postID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumns(map[string]interface{}{
			"like_count":    gorm.Expr("(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)"),
			"comment_count": gorm.Expr("(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL)"),
		}).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}
