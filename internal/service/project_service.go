package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bugtrail/internal/auth"
	apperrors "bugtrail/internal/errors"
	"bugtrail/internal/model"
	"bugtrail/internal/repository"
)

// ProjectService handles the project lifecycle: creation, role-scoped listing,
// manager assignment and cascading deletion.
type ProjectService interface {
	Create(ctx context.Context, actor auth.Identity, name, description string) (*model.Project, error)
	List(ctx context.Context, actor auth.Identity) ([]model.Project, error)
	AssignManager(ctx context.Context, actor auth.Identity, projectID, managerID uuid.UUID) (*model.Project, error)
	Delete(ctx context.Context, actor auth.Identity, projectID uuid.UUID) error
	ListProjectUsers(ctx context.Context, actor auth.Identity, projectID uuid.UUID) ([]model.User, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	ticketRepo  repository.TicketRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo repository.ProjectRepository, ticketRepo repository.TicketRepository, userRepo repository.UserRepository) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		ticketRepo:  ticketRepo,
		userRepo:    userRepo,
	}
}

// Create makes a project owned by the actor, with the actor as its first
// member. Admin-only.
func (s *projectService) Create(ctx context.Context, actor auth.Identity, name, description string) (*model.Project, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperrors.ErrAccessDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrProjectNameRequired
	}

	project := &model.Project{
		Name:        name,
		Description: description,
		OwnerID:     actor.ID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if err := s.projectRepo.AddMember(ctx, project, &model.User{ID: actor.ID}); err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	return project, nil
}

// List returns the projects visible to the actor:
//   - ADMIN: projects they own (system-wide listing is not exposed)
//   - MANAGER: member projects plus projects holding a ticket assigned to them
//   - USER: projects holding a ticket assigned to them
//
// Ordered newest first.
func (s *projectService) List(ctx context.Context, actor auth.Identity) ([]model.Project, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return s.projectRepo.ListByOwner(ctx, actor.ID)
	case model.RoleManager:
		member, err := s.projectRepo.ListByMember(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		assigned, err := s.projectRepo.ListByTicketAssignee(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return mergeProjects(member, assigned), nil
	case model.RoleUser:
		return s.projectRepo.ListByTicketAssignee(ctx, actor.ID)
	default:
		return nil, apperrors.ErrAccessDenied
	}
}

// mergeProjects unions two project lists by id, ordered newest first.
func mergeProjects(lists ...[]model.Project) []model.Project {
	seen := make(map[uuid.UUID]struct{})
	merged := make([]model.Project, 0)
	for _, list := range lists {
		for _, p := range list {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

// AssignManager adds a MANAGER-role user to the project's members. Admin-only.
func (s *projectService) AssignManager(ctx context.Context, actor auth.Identity, projectID, managerID uuid.UUID) (*model.Project, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperrors.ErrAccessDenied
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	manager, err := s.userRepo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if manager.Role != model.RoleManager {
		return nil, apperrors.ErrNotAManager
	}
	for _, member := range project.Members {
		if member.ID == manager.ID {
			return nil, apperrors.ErrManagerAlreadyAssigned
		}
	}

	if err := s.projectRepo.AddMember(ctx, project, manager); err != nil {
		return nil, fmt.Errorf("add manager: %w", err)
	}

	return s.projectRepo.FindByID(ctx, projectID)
}

// Delete removes a project and cascades to its tickets and their comments, in
// that dependency order, inside one transaction. A failed cascade is reported
// as a partial delete, never as success. Admin-only.
func (s *projectService) Delete(ctx context.Context, actor auth.Identity, projectID uuid.UUID) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.ErrAccessDenied
	}

	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return err
	}

	if err := s.projectRepo.DeleteCascade(ctx, projectID); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPartialDelete, err)
	}
	return nil
}

// ListProjectUsers returns the assignment pool for a project: members plus
// ticket assignees, deduplicated, admins excluded.
func (s *projectService) ListProjectUsers(ctx context.Context, actor auth.Identity, projectID uuid.UUID) ([]model.User, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	tickets, err := s.ticketRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{})
	users := make([]model.User, 0, len(project.Members))
	add := func(u model.User) {
		if u.Role != model.RoleManager && u.Role != model.RoleUser {
			return
		}
		if _, ok := seen[u.ID]; ok {
			return
		}
		seen[u.ID] = struct{}{}
		users = append(users, u)
	}
	for _, member := range project.Members {
		add(member)
	}
	for _, ticket := range tickets {
		if ticket.Assignee != nil {
			add(*ticket.Assignee)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Name < users[j].Name
	})
	return users, nil
}
