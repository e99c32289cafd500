package models

import "time"

// Like records a user's membership in a post's like set.
// The combination of UserID and PostID must be unique. Rows are hard-deleted
// on unlike so the unique index stays authoritative for toggle semantics.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"-"`
}
