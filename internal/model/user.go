package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Role is the single axis for authorization decisions.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleUser
}

// User represents an authenticated user in the system.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:50;not null;default:'USER';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
