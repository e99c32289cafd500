package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a user-authored feed item. Comments and likes live in their own
// tables (ownership checks stay orthogonal that way) but are presented nested
// in the wire format: comments as full objects, likes as the liking users'
// IDs.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"_id"`
	UserID  uint   `gorm:"not null;index" json:"-"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Content string `gorm:"not null" json:"content"`
	Image   string `json:"image"`
	// Likes is not persisted; flattened from LikeRows at query time
	Likes     []uint         `gorm:"-" json:"likes"`
	LikeRows  []Like         `gorm:"foreignKey:PostID" json:"-"`
	Comments  []Comment      `gorm:"foreignKey:PostID" json:"comments"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Normalize flattens like rows into user IDs and replaces nil slices so the
// wire format always carries arrays, never null. A post that already has a
// flattened like set (e.g. restored from the cache, where LikeRows is not
// serialized) is left alone.
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = make([]uint, 0, len(p.LikeRows))
		for _, l := range p.LikeRows {
			p.Likes = append(p.Likes, l.UserID)
		}
	}
	if p.Comments == nil {
		p.Comments = make([]Comment, 0)
	}
}

// LikedBy reports whether userID is in the post's like set. It consults both
// the raw rows and the flattened set, so it works on fresh and normalized
// posts alike.
func (p *Post) LikedBy(userID uint) bool {
	for _, l := range p.LikeRows {
		if l.UserID == userID {
			return true
		}
	}
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
