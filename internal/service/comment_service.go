package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 2000

// CommentService coordinates comment operations. Every mutation returns the
// refreshed parent post so clients can reconcile their feed in one step.
type CommentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	events      EventPublisher
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type RemoveCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
}

func NewCommentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, events EventPublisher) *CommentService {
	return &CommentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		events:      events,
	}
}

func (s *CommentService) publish(ctx context.Context, eventType string, post *models.Post) {
	if s.events != nil {
		s.events.PublishPostEvent(ctx, eventType, post)
	}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, models.NewValidationError("Text too long (max 2000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, postNotFound(err)
	}

	comment := &models.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, postNotFound(err)
	}
	s.publish(ctx, models.EventCommentAdded, post)
	return post, nil
}

// RemoveComment deletes the caller's comment from the post. Only the comment
// author may remove it; owning the post grants no rights over other people's
// comments.
func (s *CommentService) RemoveComment(ctx context.Context, in RemoveCommentInput) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, postNotFound(err)
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment")
		}
		return nil, err
	}
	if comment.PostID != in.PostID {
		return nil, models.NewNotFoundError("Comment")
	}

	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, postNotFound(err)
	}
	s.publish(ctx, models.EventCommentRemoved, post)
	return post, nil
}
