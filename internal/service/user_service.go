package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"bugtrail/internal/auth"
	apperrors "bugtrail/internal/errors"
	"bugtrail/internal/model"
	"bugtrail/internal/repository"
)

// UserService exposes profile and user administration operations.
type UserService interface {
	Me(ctx context.Context, actor auth.Identity) (*model.User, error)
	UpdateMe(ctx context.Context, actor auth.Identity, name string) (*model.User, error)
	ListUsers(ctx context.Context, actor auth.Identity) ([]model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Me(ctx context.Context, actor auth.Identity) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateMe changes the caller's display name. Email, role and password are not
// mutable through the profile.
func (s *userService) UpdateMe(ctx context.Context, actor auth.Identity, name string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if trimmed := strings.TrimSpace(name); trimmed != "" {
		user.Name = trimmed
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers is an admin-only view of every account.
func (s *userService) ListUsers(ctx context.Context, actor auth.Identity) ([]model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperrors.ErrAccessDenied
	}
	return s.userRepo.List(ctx)
}
