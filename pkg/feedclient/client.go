// Package feedclient is a Go client for the Ripple API. It mirrors the wire
// contract exactly, so external tools can drive the API without hand-rolled
// JSON.
package feedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// User is the public author shape returned inside posts and comments.
type User struct {
	ID           uint   `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profileImage"`
}

// Comment mirrors the comment wire shape.
type Comment struct {
	ID        uint      `json:"_id"`
	User      User      `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post mirrors the post wire shape.
type Post struct {
	ID        uint      `json:"_id"`
	User      User      `json:"user"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	Likes     []uint    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to a Ripple API server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:8375".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken sets the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

// envelope is the standard response wrapper.
type envelope struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Count   int     `json:"count"`
	Token   string  `json:"token"`
	User    *User   `json:"user"`
	Post    *Post   `json:"post"`
	Posts   []*Post `json:"posts"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}

// Signup registers a new account and stores the returned token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*User, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	c.token = env.Token
	return env.User, nil
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	c.token = env.Token
	return env.User, nil
}

// ListPosts fetches the full feed, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]*Post, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/posts", nil)
	if err != nil {
		return nil, err
	}
	return env.Posts, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id uint) (*Post, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return env.Post, nil
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, content, image string) (*Post, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/posts", map[string]string{
		"content": content,
		"image":   image,
	})
	if err != nil {
		return nil, err
	}
	return env.Post, nil
}

// UpdatePost edits a post. A nil image keeps the current one; a pointer to ""
// clears it.
func (c *Client) UpdatePost(ctx context.Context, id uint, content string, image *string) (*Post, error) {
	body := map[string]any{"content": content}
	if image != nil {
		body["image"] = *image
	}
	env, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d", id), body)
	if err != nil {
		return nil, err
	}
	return env.Post, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil)
	return err
}

// ToggleLike flips the caller's like and returns the fresh post.
func (c *Client) ToggleLike(ctx context.Context, id uint) (*Post, error) {
	env, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d/like", id), nil)
	if err != nil {
		return nil, err
	}
	return env.Post, nil
}

// AddComment adds a comment and returns the refreshed post.
func (c *Client) AddComment(ctx context.Context, postID uint, text string) (*Post, error) {
	env, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/comment", postID), map[string]string{
		"text": text,
	})
	if err != nil {
		return nil, err
	}
	return env.Post, nil
}

// RemoveComment removes a comment and returns the refreshed post.
func (c *Client) RemoveComment(ctx context.Context, postID, commentID uint) (*Post, error) {
	env, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comment/%d", postID, commentID), nil)
	if err != nil {
		return nil, err
	}
	return env.Post, nil
}
