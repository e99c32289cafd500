// Package models contains the domain types shared across the application.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account holder. The email is omitted from payloads where the
// user appears as someone else's author (comment authors are loaded without
// it); the password hash never serializes.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"_id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password     string         `gorm:"not null" json:"-"`
	Bio          string         `json:"bio,omitempty"`
	ProfileImage string         `json:"profileImage"`
	CreatedAt    time.Time      `json:"-"`
	UpdatedAt    time.Time      `json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
