package service

import (
	"context"
	"strings"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn  func(context.Context, *models.Comment) error
	getByIDFn func(context.Context, uint) (*models.Comment, error)
	deleteFn  func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

func TestCommentService_AddComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopPostRepo(), noopCommentRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input AddCommentInput
	}{
		{
			name:  "empty text",
			input: AddCommentInput{UserID: 1, PostID: 1},
		},
		{
			name:  "whitespace-only text",
			input: AddCommentInput{UserID: 1, PostID: 1, Text: "  \t "},
		},
		{
			name:  "text too long",
			input: AddCommentInput{UserID: 1, PostID: 1, Text: strings.Repeat("x", 2001)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.AddComment(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestCommentService_AddComment(t *testing.T) {
	t.Parallel()

	t.Run("trims and stores the comment", func(t *testing.T) {
		t.Parallel()
		var created *models.Comment
		cr := noopCommentRepo()
		cr.createFn = func(_ context.Context, comment *models.Comment) error {
			created = comment
			return nil
		}
		svc := NewCommentService(noopPostRepo(), cr, nil)

		_, err := svc.AddComment(context.Background(), AddCommentInput{
			UserID: 3,
			PostID: 1,
			Text:   "  great post  ",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "great post", created.Text)
		assert.Equal(t, uint(3), created.UserID)
		assert.Equal(t, uint(1), created.PostID)
	})

	t.Run("length limit counts characters, not bytes", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopPostRepo(), noopCommentRepo(), nil)

		_, err := svc.AddComment(context.Background(), AddCommentInput{
			UserID: 1,
			PostID: 1,
			Text:   strings.Repeat("é", 2000),
		})
		assert.NoError(t, err)
	})

	t.Run("publishes a comment added event", func(t *testing.T) {
		t.Parallel()
		pub := &publisherStub{}
		svc := NewCommentService(noopPostRepo(), noopCommentRepo(), pub)

		_, err := svc.AddComment(context.Background(), AddCommentInput{UserID: 1, PostID: 1, Text: "hi"})
		require.NoError(t, err)
		assert.Equal(t, []string{models.EventCommentAdded}, pub.events)
	})

	t.Run("missing post returns not found", func(t *testing.T) {
		t.Parallel()
		pr := noopPostRepo()
		pr.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		pub := &publisherStub{}
		svc := NewCommentService(pr, noopCommentRepo(), pub)

		_, err := svc.AddComment(context.Background(), AddCommentInput{UserID: 1, PostID: 99, Text: "hi"})
		assertNotFoundError(t, err)
		assert.Contains(t, err.Error(), "Post not found")
		assert.Empty(t, pub.events)
	})
}

func TestCommentService_RemoveComment(t *testing.T) {
	t.Parallel()

	t.Run("author can remove", func(t *testing.T) {
		t.Parallel()
		cr := noopCommentRepo()
		cr.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 5, PostID: 1, UserID: 3}, nil
		}
		deleted := false
		cr.deleteFn = func(_ context.Context, id uint) error {
			deleted = true
			assert.Equal(t, uint(5), id)
			return nil
		}
		pub := &publisherStub{}
		svc := NewCommentService(noopPostRepo(), cr, pub)

		_, err := svc.RemoveComment(context.Background(), RemoveCommentInput{UserID: 3, PostID: 1, CommentID: 5})
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, []string{models.EventCommentRemoved}, pub.events)
	})

	t.Run("post owner may not remove someone else's comment", func(t *testing.T) {
		t.Parallel()
		pr := noopPostRepo()
		pr.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1}, nil
		}
		cr := noopCommentRepo()
		cr.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 5, PostID: 1, UserID: 3}, nil
		}
		svc := NewCommentService(pr, cr, nil)

		_, err := svc.RemoveComment(context.Background(), RemoveCommentInput{UserID: 1, PostID: 1, CommentID: 5})
		assertForbiddenError(t, err)
	})

	t.Run("comment on another post answers not found", func(t *testing.T) {
		t.Parallel()
		cr := noopCommentRepo()
		cr.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 5, PostID: 2, UserID: 3}, nil
		}
		svc := NewCommentService(noopPostRepo(), cr, nil)

		_, err := svc.RemoveComment(context.Background(), RemoveCommentInput{UserID: 3, PostID: 1, CommentID: 5})
		assertNotFoundError(t, err)
		assert.Contains(t, err.Error(), "Comment not found")
	})

	t.Run("missing comment returns not found", func(t *testing.T) {
		t.Parallel()
		cr := noopCommentRepo()
		cr.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewCommentService(noopPostRepo(), cr, nil)

		_, err := svc.RemoveComment(context.Background(), RemoveCommentInput{UserID: 3, PostID: 1, CommentID: 99})
		assertNotFoundError(t, err)
		assert.Contains(t, err.Error(), "Comment not found")
	})

	t.Run("missing post returns not found", func(t *testing.T) {
		t.Parallel()
		pr := noopPostRepo()
		pr.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewCommentService(pr, noopCommentRepo(), nil)

		_, err := svc.RemoveComment(context.Background(), RemoveCommentInput{UserID: 3, PostID: 99, CommentID: 5})
		assertNotFoundError(t, err)
		assert.Contains(t, err.Error(), "Post not found")
	})
}
