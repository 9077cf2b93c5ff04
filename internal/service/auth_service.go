package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bugtrail/internal/auth"
	apperrors "bugtrail/internal/errors"
	"bugtrail/internal/model"
	"bugtrail/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new USER-role account with a hashed password and returns
// it together with a fresh token. Role elevation is an administrative action
// (see cmd/seed), never part of self-registration.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a bearer token. Unknown email and
// wrong password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return auth.ErrInvalidToken
	}
	ttl := auth.TokenExpiry
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.tokenStore.RevokeToken(ctx, claims.ID, ttl)
}
