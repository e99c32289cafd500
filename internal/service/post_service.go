// Package service contains the business rules for posts and comments.
package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const maxContentLen = 5000

// EventPublisher broadcasts post lifecycle events to feed subscribers.
// Implementations must be non-blocking; publishing is best-effort.
type EventPublisher interface {
	PublishPostEvent(ctx context.Context, eventType string, post *models.Post)
	PublishPostDeleted(ctx context.Context, postID uint)
}

// PostService coordinates post operations across the repository, cache, and
// the feed event stream.
type PostService struct {
	postRepo repository.PostRepository
	events   EventPublisher
}

type CreatePostInput struct {
	UserID  uint
	Content string
	Image   string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
	// Image distinguishes "not sent" (nil, keep current) from "" (clear).
	Image *string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, events EventPublisher) *PostService {
	return &PostService{
		postRepo: postRepo,
		events:   events,
	}
}

// postNotFound converts a gorm record miss into the API's not-found error.
func postNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post")
	}
	return err
}

func (s *PostService) publish(ctx context.Context, eventType string, post *models.Post) {
	if s.events != nil {
		s.events.PublishPostEvent(ctx, eventType, post)
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "service.create_post")
	defer span.End()
	span.AddAttributes(attribute.Int("user.id", int(in.UserID)))

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}

	post := &models.Post{
		UserID:  in.UserID,
		Content: content,
		Image:   in.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, postNotFound(err)
	}
	s.publish(ctx, models.EventPostCreated, created)
	return created, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, postNotFound(err)
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, postNotFound(err)
	}

	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}
	post.Content = content
	if in.Image != nil {
		post.Image = *in.Image
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	updated, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, postNotFound(err)
	}
	s.publish(ctx, models.EventPostUpdated, updated)
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return postNotFound(err)
	}

	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}
	if s.events != nil {
		s.events.PublishPostDeleted(ctx, in.PostID)
	}
	return nil
}

// ToggleLike flips the caller's like on the post and returns the fresh state.
// The underlying insert and delete are both idempotent, so two racing toggles
// from the same user settle on one of the two valid outcomes rather than a
// duplicate row or an error.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "service.toggle_like")
	defer span.End()
	span.AddAttributes(
		attribute.Int("user.id", int(userID)),
		attribute.Int("post.id", int(postID)),
	)

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, postNotFound(err)
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, postNotFound(err)
	}
	s.publish(ctx, models.EventPostLiked, post)
	return post, nil
}
