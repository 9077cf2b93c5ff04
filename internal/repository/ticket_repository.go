package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bugtrail/internal/model"
)

// TicketRepository defines ticket persistence operations.
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	Update(ctx context.Context, ticket *model.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	FindByIDAndAssignee(ctx context.Context, id, assigneeID uuid.UUID) (*model.Ticket, error)
	List(ctx context.Context, projectID *uuid.UUID) ([]model.Ticket, error)
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]model.Ticket, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Ticket, error)
}

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepository) Update(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

// FindByID loads a ticket with its assignee and project.
func (r *ticketRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Assignee").Preload("Project").
		Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindByIDAndAssignee matches on both id and assignee so ownership is checked
// in the same query as the lookup.
func (r *ticketRepository) FindByIDAndAssignee(ctx context.Context, id, assigneeID uuid.UUID) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := r.db.WithContext(ctx).
		Where("id = ? AND assignee_id = ?", id, assigneeID).
		First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// List returns all tickets, optionally restricted to a project.
func (r *ticketRepository) List(ctx context.Context, projectID *uuid.UUID) ([]model.Ticket, error) {
	q := r.db.WithContext(ctx).Preload("Assignee").Preload("Project")
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	var tickets []model.Ticket
	if err := q.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Project").
		Where("assignee_id = ?", assigneeID).
		Order("created_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}
