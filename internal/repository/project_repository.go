package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bugtrail/internal/model"
)

// ProjectRepository defines project persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	ListByTicketAssignee(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	AddMember(ctx context.Context, project *model.Project, user *model.User) error
	DeleteCascade(ctx context.Context, projectID uuid.UUID) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// FindByID loads a project with its members.
func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Preload("Members").
		Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("pm.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByTicketAssignee returns projects holding at least one ticket assigned
// to the user.
func (r *projectRepository) ListByTicketAssignee(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).
		Distinct("projects.*").
		Joins("JOIN tickets ON tickets.project_id = projects.id").
		Where("tickets.assignee_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) AddMember(ctx context.Context, project *model.Project, user *model.User) error {
	return r.db.WithContext(ctx).Model(project).Association("Members").Append(user)
}

// DeleteCascade removes a project and everything under it in a single
// transaction. Ordering is comments, then tickets, then membership rows, then
// the project itself, so no orphaned references can survive a partial run.
func (r *projectRepository) DeleteCascade(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticketIDs []uuid.UUID
		if err := tx.Model(&model.Ticket{}).
			Where("project_id = ?", projectID).
			Pluck("id", &ticketIDs).Error; err != nil {
			return err
		}
		if len(ticketIDs) > 0 {
			if err := tx.Where("ticket_id IN ?", ticketIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&model.Ticket{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", projectID).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", projectID).Delete(&model.Project{}).Error
	})
}
