package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is an append-only note on a ticket. No update or delete operations
// exist for comments.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Text      string    `json:"text" gorm:"size:2000;not null"`
	TicketID  uuid.UUID `json:"ticket_id" gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null"`
	CreatedAt time.Time `json:"created_at"`

	// Author snapshot for display, preloaded on reads.
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
