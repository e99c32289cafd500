package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_Normalize(t *testing.T) {
	post := &Post{
		ID: 1,
		LikeRows: []Like{
			{UserID: 7, PostID: 1},
			{UserID: 9, PostID: 1},
		},
	}
	post.Normalize()

	assert.Equal(t, []uint{7, 9}, post.Likes)
	assert.NotNil(t, post.Comments, "comments must serialize as [], not null")

	// A post whose like set is already flattened keeps it, even when the raw
	// rows are gone (the cache does not serialize them).
	post.LikeRows = nil
	post.Normalize()
	assert.Equal(t, []uint{7, 9}, post.Likes)

	empty := &Post{ID: 2}
	empty.Normalize()
	assert.Equal(t, []uint{}, empty.Likes)
}

// A normalized post must survive a JSON round-trip with its like set intact.
func TestPost_NormalizeAfterJSONRoundTrip(t *testing.T) {
	post := &Post{ID: 1, LikeRows: []Like{{UserID: 7, PostID: 1}}}
	post.Normalize()

	raw, err := json.Marshal(post)
	require.NoError(t, err)

	var restored Post
	require.NoError(t, json.Unmarshal(raw, &restored))
	restored.Normalize()

	assert.Equal(t, []uint{7}, restored.Likes)
	assert.True(t, restored.LikedBy(7))
}

func TestPost_LikedBy(t *testing.T) {
	post := &Post{LikeRows: []Like{{UserID: 7}}}
	assert.True(t, post.LikedBy(7))
	assert.False(t, post.LikedBy(8))

	flattened := &Post{Likes: []uint{7}}
	assert.True(t, flattened.LikedBy(7))
	assert.False(t, flattened.LikedBy(8))
}

func TestPost_WireFormat(t *testing.T) {
	post := &Post{
		ID:      3,
		UserID:  1,
		User:    User{ID: 1, Name: "Grace", Email: "grace@example.com"},
		Content: "hello",
		LikeRows: []Like{
			{UserID: 7, PostID: 3},
		},
		Comments: []Comment{
			{ID: 4, PostID: 3, UserID: 2, User: User{ID: 2, Name: "Bob"}, Text: "hi"},
		},
	}
	post.Normalize()

	raw, err := json.Marshal(post)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))

	assert.Equal(t, float64(3), wire["_id"])
	assert.Equal(t, "hello", wire["content"])
	assert.Equal(t, []any{float64(7)}, wire["likes"])
	assert.NotContains(t, wire, "userId", "the author is nested, not a foreign key")
	assert.NotContains(t, wire, "LikeRows")

	author, ok := wire["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Grace", author["name"])

	comments, ok := wire["comments"].([]any)
	require.True(t, ok)
	require.Len(t, comments, 1)
	comment := comments[0].(map[string]any)
	assert.Equal(t, float64(4), comment["_id"])
	assert.Equal(t, "hi", comment["text"])

	// The comment author was loaded without an email, so none leaks.
	commentAuthor := comment["user"].(map[string]any)
	assert.NotContains(t, commentAuthor, "email")
}

func TestUser_WireFormat(t *testing.T) {
	raw, err := json.Marshal(&User{ID: 1, Name: "Grace", Email: "g@x.com", Password: "hash"})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, float64(1), wire["_id"])
	assert.NotContains(t, wire, "password")
	assert.NotContains(t, wire, "Password")
}

func TestFeedEvent_WireFormat(t *testing.T) {
	raw, err := json.Marshal(FeedEvent{Type: EventPostDeleted, PostID: 9})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "post_deleted", wire["type"])
	assert.Equal(t, float64(9), wire["postId"])
	assert.NotContains(t, wire, "post", "deletions carry only the ID")
}
