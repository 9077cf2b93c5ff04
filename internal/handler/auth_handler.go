package handler

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"bugtrail/internal/auth"
	apperrors "bugtrail/internal/errors"
	"bugtrail/internal/model"
	"bugtrail/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserPayload is the safe subset of a user returned with tokens. The role is
// included so clients can shape their UI around it.
type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserPayload `json:"user"`
}

func userPayload(user *model.User) UserPayload {
	return UserPayload{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "user registered successfully",
		Token:   token,
		User:    userPayload(user),
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: "login successful",
		Token:   token,
		User:    userPayload(user),
	})
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Message: "invalid or expired token",
			Code:    "INVALID_TOKEN",
		})
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Message: "invalid or expired token",
			Code:    "INVALID_TOKEN",
		})
	}

	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Message: "invalid or expired token",
				Code:    "INVALID_TOKEN",
			})
		}
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}
