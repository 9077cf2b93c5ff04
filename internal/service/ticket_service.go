package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bugtrail/internal/auth"
	apperrors "bugtrail/internal/errors"
	"bugtrail/internal/model"
	"bugtrail/internal/repository"
)

// CreateTicketInput carries the fields for ticket creation. Status is not a
// field: new tickets always start at TODO regardless of caller input.
type CreateTicketInput struct {
	Title       string
	Description string
	Priority    string
	ProjectID   uuid.UUID
	AssigneeID  *uuid.UUID
}

// TicketService handles the ticket lifecycle. Status transitions are
// unordered (any status reachable from any other); only who may perform them
// is restricted.
type TicketService interface {
	Create(ctx context.Context, actor auth.Identity, input CreateTicketInput) (*model.Ticket, error)
	List(ctx context.Context, actor auth.Identity, projectID *uuid.UUID) ([]model.Ticket, error)
	ListMine(ctx context.Context, actor auth.Identity) ([]model.Ticket, error)
	Get(ctx context.Context, actor auth.Identity, ticketID uuid.UUID) (*model.Ticket, error)
	Assign(ctx context.Context, actor auth.Identity, ticketID, userID uuid.UUID) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, actor auth.Identity, ticketID uuid.UUID, status string) (*model.Ticket, error)
	UpdateMyStatus(ctx context.Context, actor auth.Identity, ticketID uuid.UUID, status string) (*model.Ticket, error)
}

type ticketService struct {
	ticketRepo  repository.TicketRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTicketService creates a new ticket service.
func NewTicketService(ticketRepo repository.TicketRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) TicketService {
	return &ticketService{
		ticketRepo:  ticketRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// Create makes a ticket in an existing project. Admins and managers only.
// Priority falls back to MEDIUM when omitted or unknown.
func (s *ticketService) Create(ctx context.Context, actor auth.Identity, input CreateTicketInput) (*model.Ticket, error) {
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleManager {
		return nil, apperrors.ErrAccessDenied
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.ErrTicketTitleRequired
	}
	if input.ProjectID == uuid.Nil {
		return nil, apperrors.ErrProjectNotFound
	}

	if _, err := s.projectRepo.FindByID(ctx, input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	if input.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	priority := input.Priority
	if !model.ValidPriority(priority) {
		priority = model.PriorityMedium
	}

	ticket := &model.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      model.StatusTodo,
		Priority:    priority,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	return s.ticketRepo.FindByID(ctx, ticket.ID)
}

// List returns tickets for admins (all, optionally filtered by project) and
// managers (their own assigned workload across projects; the project filter is
// intentionally ignored). Users must go through ListMine.
func (s *ticketService) List(ctx context.Context, actor auth.Identity, projectID *uuid.UUID) ([]model.Ticket, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return s.ticketRepo.List(ctx, projectID)
	case model.RoleManager:
		return s.ticketRepo.ListByAssignee(ctx, actor.ID)
	default:
		return nil, apperrors.ErrAccessDenied
	}
}

// ListMine returns the actor's assigned tickets with project details. USER only.
func (s *ticketService) ListMine(ctx context.Context, actor auth.Identity) ([]model.Ticket, error) {
	if actor.Role != model.RoleUser {
		return nil, apperrors.ErrAccessDenied
	}
	return s.ticketRepo.ListByAssignee(ctx, actor.ID)
}

// Get fetches a ticket with assignee and project. USER actors may only read
// tickets assigned to them.
func (s *ticketService) Get(ctx context.Context, actor auth.Identity, ticketID uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	if actor.Role == model.RoleUser {
		if ticket.AssigneeID == nil || *ticket.AssigneeID != actor.ID {
			return nil, apperrors.ErrAccessDenied
		}
	}
	return ticket, nil
}

// Assign sets the ticket's assignee. Admin-only. The target user must exist
// and must not be an admin.
func (s *ticketService) Assign(ctx context.Context, actor auth.Identity, ticketID, userID uuid.UUID) (*model.Ticket, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperrors.ErrAccessDenied
	}

	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	if err := s.checkAssignee(ctx, userID); err != nil {
		return nil, err
	}

	ticket.AssigneeID = &userID
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("assign ticket: %w", err)
	}
	return s.ticketRepo.FindByID(ctx, ticketID)
}

// UpdateStatus moves a ticket to any valid status. Admins and managers only.
func (s *ticketService) UpdateStatus(ctx context.Context, actor auth.Identity, ticketID uuid.UUID, status string) (*model.Ticket, error) {
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleManager {
		return nil, apperrors.ErrAccessDenied
	}
	if !model.ValidStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	ticket.Status = status
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return ticket, nil
}

// UpdateMyStatus lets a USER move a ticket assigned to them. The lookup
// matches id and assignee together; a miss is answered with a generic denial
// so the response does not reveal whether the ticket exists.
func (s *ticketService) UpdateMyStatus(ctx context.Context, actor auth.Identity, ticketID uuid.UUID, status string) (*model.Ticket, error) {
	if actor.Role != model.RoleUser {
		return nil, apperrors.ErrAccessDenied
	}
	if !model.ValidStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	ticket, err := s.ticketRepo.FindByIDAndAssignee(ctx, ticketID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotAssigned
		}
		return nil, err
	}

	ticket.Status = status
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return ticket, nil
}

// checkAssignee verifies the target user exists and is assignable. Admins are
// excluded from assignment pools.
func (s *ticketService) checkAssignee(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	if user.Role == model.RoleAdmin {
		return apperrors.ErrAssigneeNotAllowed
	}
	return nil
}
