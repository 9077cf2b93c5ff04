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

// CommentService handles append-only ticket comments. Any authenticated role
// may write and read; read access is intentionally not scoped to project
// membership (flat organization trust model).
type CommentService interface {
	Add(ctx context.Context, actor auth.Identity, ticketID uuid.UUID, text string) (*model.Comment, error)
	ListByTicket(ctx context.Context, actor auth.Identity, ticketID uuid.UUID) ([]model.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	ticketRepo  repository.TicketRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, ticketRepo repository.TicketRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		ticketRepo:  ticketRepo,
	}
}

// Add appends a comment authored by the actor to an existing ticket. The
// returned comment carries the author snapshot for display.
func (s *commentService) Add(ctx context.Context, actor auth.Identity, ticketID uuid.UUID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ErrCommentTextRequired
	}

	if _, err := s.ticketRepo.FindByID(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		Text:     text,
		TicketID: ticketID,
		UserID:   actor.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	return s.commentRepo.FindByID(ctx, comment.ID)
}

// ListByTicket returns a ticket's comments oldest-first with author snapshots.
func (s *commentService) ListByTicket(ctx context.Context, actor auth.Identity, ticketID uuid.UUID) ([]model.Comment, error) {
	return s.commentRepo.ListByTicket(ctx, ticketID)
}
