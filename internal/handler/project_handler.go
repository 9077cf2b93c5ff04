package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bugtrail/internal/service"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest represents a project creation request.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// AssignManagerRequest represents a manager assignment request.
type AssignManagerRequest struct {
	ProjectID string `json:"project_id" validate:"required,uuid"`
	ManagerID string `json:"manager_id" validate:"required,uuid"`
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Project data"
// @Success 201 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	project, err := h.projectService.Create(c.Request().Context(), identity, req.Name, req.Description)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, project)
}

// List godoc
// @Summary List projects visible to the caller
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	projects, err := h.projectService.List(c.Request().Context(), identity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, projects)
}

// AssignManager godoc
// @Summary Assign a manager to a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssignManagerRequest true "Assignment data"
// @Success 200 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /projects/assign [post]
func (h *ProjectHandler) AssignManager(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req AssignManagerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return badRequest("invalid project id")
	}
	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		return badRequest("invalid manager id")
	}

	project, err := h.projectService.AssignManager(c.Request().Context(), identity, projectID, managerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, project)
}

// Delete godoc
// @Summary Delete a project and everything under it
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid project id")
	}

	if err := h.projectService.Delete(c.Request().Context(), identity, projectID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "project deleted successfully",
	})
}

// ListUsers godoc
// @Summary List the assignment pool of a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id}/users [get]
func (h *ProjectHandler) ListUsers(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid project id")
	}

	users, err := h.projectService.ListProjectUsers(c.Request().Context(), identity, projectID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}
