package repository

import (
	"context"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db      *gorm.DB
	metrics *dbMetrics
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, metrics: newDBMetrics("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer r.metrics.track("create")()
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.metrics.fail(ctx, err, "create")
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	r.metrics.op(ctx, "create", map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
	})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	defer r.metrics.track("get_by_id")()
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.track("delete")()
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		r.metrics.fail(ctx, err, "delete")
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	r.metrics.op(ctx, "delete", map[string]interface{}{
		"comment_id": id,
		"post_id":    comment.PostID,
	})
	return nil
}
