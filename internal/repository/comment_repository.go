package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bugtrail/internal/model"
)

// CommentRepository defines comment persistence operations. Comments are
// append-only; there is no update or delete.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindByID loads a comment with its author for the denormalized response.
func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("User").
		Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTicket returns comments oldest-first with their authors.
func (r *commentRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
