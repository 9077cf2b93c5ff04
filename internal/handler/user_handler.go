package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bugtrail/internal/service"
)

// UserHandler handles profile and user administration endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest represents a profile update request. Only the display
// name is mutable.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

// Me godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Me(c.Request().Context(), identity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile data"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	user, err := h.userService.UpdateMe(c.Request().Context(), identity, req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// List godoc
// @Summary List all users (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.userService.ListUsers(c.Request().Context(), identity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}
