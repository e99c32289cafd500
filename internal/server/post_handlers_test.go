package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Like(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) Unlike(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

// newTestPostApp wires a Server around the mock repo with user 1 logged in.
// The app registers only the routes under test, skipping the full middleware
// chain and prometheus (which must not be registered twice per binary).
func newTestPostApp(mockRepo *MockPostRepository) (*fiber.App, *Server) {
	s := &Server{
		postService: service.NewPostService(mockRepo, nil),
	}
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	return app, s
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"content": "Hello world"},
			mockSetup: func(m *MockPostRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
				m.On("GetByID", mock.Anything, mock.Anything).
					Return(&models.Post{ID: 1, UserID: 1, Content: "Hello world"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Empty Content",
			body:           map[string]string{"content": ""},
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Whitespace Content",
			body:           map[string]string{"content": "    "},
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			app, s := newTestPostApp(mockRepo)
			app.Post("/posts", s.CreatePost)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			parsed := decodeBody(t, resp)
			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, true, parsed["success"])
				assert.NotNil(t, parsed["post"])
			} else {
				assert.Equal(t, false, parsed["success"])
				assert.NotEmpty(t, parsed["message"])
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetPosts(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("List", mock.Anything).Return([]*models.Post{
		{ID: 2, UserID: 1, Content: "second"},
		{ID: 1, UserID: 2, Content: "first"},
	}, nil)
	app, s := newTestPostApp(mockRepo)
	app.Get("/posts", s.GetPosts)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := decodeBody(t, resp)
	assert.Equal(t, true, parsed["success"])
	assert.Equal(t, float64(2), parsed["count"])
	assert.Len(t, parsed["posts"], 2)
}

func TestGetPosts_EmptyIsArray(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("List", mock.Anything).Return([]*models.Post(nil), nil)
	app, s := newTestPostApp(mockRepo)
	app.Get("/posts", s.GetPosts)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	parsed := decodeBody(t, resp)
	assert.Equal(t, float64(0), parsed["count"])
	posts, ok := parsed["posts"].([]any)
	require.True(t, ok, "posts must serialize as an array, not null")
	assert.Empty(t, posts)
}

func TestGetPost(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
	}{
		{
			name: "Found",
			path: "/posts/1",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(1)).
					Return(&models.Post{ID: 1, UserID: 2, Content: "hi"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Not Found",
			path: "/posts/99",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(99)).
					Return(nil, models.NewNotFoundError("Post"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid ID",
			path:           "/posts/abc",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			app, s := newTestPostApp(mockRepo)
			app.Get("/posts/:id", s.GetPost)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestUpdatePost(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
	}{
		{
			name: "Owner Updates",
			body: `{"content":"edited"}`,
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(1)).
					Return(&models.Post{ID: 1, UserID: 1, Content: "original"}, nil)
				m.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Non-Owner Forbidden",
			body: `{"content":"edited"}`,
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(1)).
					Return(&models.Post{ID: 1, UserID: 2, Content: "original"}, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "Empty Content",
			body: `{"content":"  "}`,
			mockSetup: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(1)).
					Return(&models.Post{ID: 1, UserID: 1, Content: "original"}, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			app, s := newTestPostApp(mockRepo)
			app.Put("/posts/:id", s.UpdatePost)

			req := httptest.NewRequest(http.MethodPut, "/posts/1", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestDeletePost(t *testing.T) {
	t.Run("Owner Deletes", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Post{ID: 1, UserID: 1}, nil)
		mockRepo.On("Delete", mock.Anything, uint(1)).Return(nil)
		app, s := newTestPostApp(mockRepo)
		app.Delete("/posts/:id", s.DeletePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/posts/1", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		parsed := decodeBody(t, resp)
		assert.Equal(t, true, parsed["success"])
		assert.Equal(t, "Post deleted successfully", parsed["message"])
		mockRepo.AssertExpectations(t)
	})

	t.Run("Non-Owner Forbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Post{ID: 1, UserID: 2}, nil)
		app, s := newTestPostApp(mockRepo)
		app.Delete("/posts/:id", s.DeletePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/posts/1", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestToggleLike(t *testing.T) {
	t.Run("Like", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Post{ID: 1, UserID: 2}, nil)
		mockRepo.On("IsLiked", mock.Anything, uint(1), uint(1)).Return(false, nil)
		mockRepo.On("Like", mock.Anything, uint(1), uint(1)).Return(nil)
		app, s := newTestPostApp(mockRepo)
		app.Put("/posts/:id/like", s.ToggleLike)

		resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/posts/1/like", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unlike", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Post{ID: 1, UserID: 2}, nil)
		mockRepo.On("IsLiked", mock.Anything, uint(1), uint(1)).Return(true, nil)
		mockRepo.On("Unlike", mock.Anything, uint(1), uint(1)).Return(nil)
		app, s := newTestPostApp(mockRepo)
		app.Put("/posts/:id/like", s.ToggleLike)

		resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/posts/1/like", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Missing Post", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Post"))
		app, s := newTestPostApp(mockRepo)
		app.Put("/posts/:id/like", s.ToggleLike)

		resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/posts/99/like", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
