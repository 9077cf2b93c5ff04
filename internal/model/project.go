package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project groups tickets under an owner and a set of member users.
// Members only grow: the owner at creation, managers via assignment.
type Project struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	Description string    `json:"description" gorm:"size:2000"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Members []User   `json:"members,omitempty" gorm:"many2many:project_members"`
	Tickets []Ticket `json:"tickets,omitempty" gorm:"foreignKey:ProjectID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
