package repository

import (
	"context"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
}

type postRepository struct {
	db      *gorm.DB
	metrics *dbMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, metrics: newDBMetrics("posts")}
}

// cachedPost is the cache representation of a post. The wire format hides the
// owner ID and the raw like rows, so both must be carried explicitly or a
// cache hit would come back without them.
type cachedPost struct {
	models.Post
	OwnerID uint `json:"ownerId"`
}

func newCachedPost(p *models.Post) *cachedPost {
	p.Normalize()
	return &cachedPost{Post: *p, OwnerID: p.UserID}
}

func (cp *cachedPost) post() *models.Post {
	p := cp.Post
	p.UserID = cp.OwnerID
	p.Normalize()
	return &p
}

// withAssociations preloads everything a post response needs. Comment authors
// are narrowed to public fields so their email never reaches the wire.
func (r *postRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("LikeRows").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "profile_image")
		})
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer r.metrics.track("create")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.metrics.fail(ctx, err, "create")
		return err
	}
	cache.Invalidate(ctx, cache.PostsListKey)
	r.metrics.op(ctx, "create", map[string]interface{}{"post_id": post.ID})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "get_by_id", "posts")
	defer span.End()

	var entry cachedPost
	err := cache.Aside(ctx, cache.PostKey(id), &entry, cache.PostTTL, func() error {
		defer r.metrics.track("get_by_id")()
		var post models.Post
		if err := r.withAssociations(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
			return err
		}
		entry = *newCachedPost(&post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry.post(), nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "list", "posts")
	defer span.End()

	var entries []*cachedPost
	err := cache.Aside(ctx, cache.PostsListKey, &entries, cache.PostsListTTL, func() error {
		defer r.metrics.track("list")()
		var posts []*models.Post
		if err := r.withAssociations(r.db.WithContext(ctx)).
			Order("posts.created_at DESC").
			Find(&posts).Error; err != nil {
			return err
		}
		entries = make([]*cachedPost, 0, len(posts))
		for _, p := range posts {
			entries = append(entries, newCachedPost(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0, len(entries))
	for _, e := range entries {
		posts = append(posts, e.post())
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer r.metrics.track("update")()
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		r.metrics.fail(ctx, err, "update")
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	r.metrics.op(ctx, "update", map[string]interface{}{"post_id": post.ID})
	return nil
}

// Delete removes the post with its comments and likes in one transaction.
// Comments and the post are soft-deleted; like rows are dropped outright since
// they carry no history worth keeping.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.track("delete")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		r.metrics.fail(ctx, err, "delete")
		return err
	}
	cache.InvalidatePost(ctx, id)
	r.metrics.op(ctx, "delete", map[string]interface{}{"post_id": id})
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	defer r.metrics.track("is_liked")()
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Like inserts the like row atomically. ON CONFLICT DO NOTHING makes
// concurrent toggles converge instead of erroring on the unique index.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	defer r.metrics.track("like")()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&models.Like{UserID: userID, PostID: postID}).Error
	if err != nil {
		r.metrics.fail(ctx, err, "like")
		return err
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// Unlike hard-deletes the like row.
func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	defer r.metrics.track("unlike")()
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		r.metrics.fail(ctx, err, "unlike")
		return err
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}
