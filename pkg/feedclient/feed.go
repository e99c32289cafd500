package feedclient

import (
	"encoding/json"
	"sync"
)

// Feed event types, matching the server's FeedEvent envelope.
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventPostLiked      = "post_liked"
	EventCommentAdded   = "comment_added"
	EventCommentRemoved = "comment_removed"
)

// Event is the wire shape of a feed event.
type Event struct {
	Type   string `json:"type"`
	PostID uint   `json:"postId"`
	Post   *Post  `json:"post,omitempty"`
}

// Feed is a client-side view of the post feed that stays consistent under
// incoming events: new posts are prepended, mutated posts are replaced in
// place, and deleted posts are removed. Safe for concurrent use.
type Feed struct {
	mu    sync.RWMutex
	posts []*Post
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Set replaces the feed contents, e.g. after an initial ListPosts.
func (f *Feed) Set(posts []*Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = make([]*Post, len(posts))
	copy(f.posts, posts)
}

// Posts returns a snapshot of the feed, newest first.
func (f *Feed) Posts() []*Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*Post, len(f.posts))
	copy(out, f.posts)
	return out
}

// Len returns the number of posts in the feed.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.posts)
}

// Prepend inserts a new post at the top. If the post is already present it is
// replaced instead, so replayed create events stay idempotent.
func (f *Feed) Prepend(post *Post) {
	if post == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == post.ID {
			f.posts[i] = post
			return
		}
	}
	f.posts = append([]*Post{post}, f.posts...)
}

// Replace swaps the stored post with the same ID, preserving feed order.
// Unknown posts are ignored; the next full refresh will pick them up.
func (f *Feed) Replace(post *Post) {
	if post == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == post.ID {
			f.posts[i] = post
			return
		}
	}
}

// Remove drops the post with the given ID.
func (f *Feed) Remove(postID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == postID {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return
		}
	}
}

// Apply reconciles the feed with a single event.
func (f *Feed) Apply(event Event) {
	switch event.Type {
	case EventPostCreated:
		f.Prepend(event.Post)
	case EventPostUpdated, EventPostLiked, EventCommentAdded, EventCommentRemoved:
		f.Replace(event.Post)
	case EventPostDeleted:
		f.Remove(event.PostID)
	}
}

// ApplyRaw parses a raw event payload and applies it. Malformed payloads are
// reported, never applied.
func (f *Feed) ApplyRaw(payload []byte) error {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	f.Apply(event)
	return nil
}
