package models

// Feed event types broadcast over Redis pub/sub and the feed WebSocket.
const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventPostLiked      = "post_liked"
	EventCommentAdded   = "comment_added"
	EventCommentRemoved = "comment_removed"
)

// FeedEvent is the envelope published for every post mutation. Deleted events
// carry only the post ID.
type FeedEvent struct {
	Type   string `json:"type"`
	PostID uint   `json:"postId"`
	Post   *Post  `json:"post,omitempty"`
}
