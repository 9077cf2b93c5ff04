package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket statuses. Any status is reachable from any other in one update;
// only who may perform the transition is restricted.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Ticket priorities.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// ValidStatus reports whether status is one of the three known statuses.
func ValidStatus(status string) bool {
	return status == StatusTodo || status == StatusInProgress || status == StatusDone
}

// ValidPriority reports whether priority is one of the three known priorities.
func ValidPriority(priority string) bool {
	return priority == PriorityHigh || priority == PriorityMedium || priority == PriorityLow
}

// Ticket represents a single unit of work scoped to exactly one project.
type Ticket struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"size:2000"`
	Status      string     `json:"status" gorm:"size:50;not null;default:'TODO';index"`
	Priority    string     `json:"priority" gorm:"size:50;not null;default:'MEDIUM'"`
	ProjectID   uuid.UUID  `json:"project_id" gorm:"type:char(36);not null;index"`
	AssigneeID  *uuid.UUID `json:"assignee_id" gorm:"type:char(36);index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Project  *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Assignee *User    `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
