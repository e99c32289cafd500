package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a remark on a post. Its owner is independent of the post's
// owner: only the comment's author may remove it.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"_id"`
	PostID    uint           `gorm:"not null;index" json:"-"`
	UserID    uint           `gorm:"not null" json:"-"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Text      string         `gorm:"not null" json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
