package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bugtrail/internal/service"
)

// TicketHandler handles ticket endpoints.
type TicketHandler struct {
	ticketService service.TicketService
}

// NewTicketHandler creates a new ticket handler.
func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// CreateTicketRequest represents a ticket creation request. Status is not
// accepted; new tickets always start at TODO.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ProjectID   string `json:"project_id" validate:"required,uuid"`
	AssigneeID  string `json:"assignee_id" validate:"omitempty,uuid"`
}

// AssignTicketRequest represents a ticket assignment request.
type AssignTicketRequest struct {
	TicketID string `json:"ticket_id" validate:"required,uuid"`
	UserID   string `json:"user_id" validate:"required,uuid"`
}

// UpdateStatusRequest represents a status update request.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create godoc
// @Summary Create a ticket in a project
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTicketRequest true "Ticket data"
// @Success 201 {object} model.Ticket
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req CreateTicketRequest
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

	input := service.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		ProjectID:   projectID,
	}
	if req.AssigneeID != "" {
		assigneeID, err := uuid.Parse(req.AssigneeID)
		if err != nil {
			return badRequest("invalid assignee id")
		}
		input.AssigneeID = &assigneeID
	}

	ticket, err := h.ticketService.Create(c.Request().Context(), identity, input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, ticket)
}

// List godoc
// @Summary List tickets (admin: all, manager: own workload)
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param project_id query string false "Filter by project (admin only)"
// @Success 200 {array} model.Ticket
// @Failure 403 {object} errors.ErrorResponse
// @Router /tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var projectID *uuid.UUID
	if raw := c.QueryParam("project_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest("invalid project id")
		}
		projectID = &parsed
	}

	tickets, err := h.ticketService.List(c.Request().Context(), identity, projectID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tickets)
}

// ListMine godoc
// @Summary List the caller's assigned tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Ticket
// @Failure 403 {object} errors.ErrorResponse
// @Router /tickets/my [get]
func (h *TicketHandler) ListMine(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	tickets, err := h.ticketService.ListMine(c.Request().Context(), identity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tickets)
}

// Get godoc
// @Summary Get a ticket with assignee and project details
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} model.Ticket
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid ticket id")
	}

	ticket, err := h.ticketService.Get(c.Request().Context(), identity, ticketID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// Assign godoc
// @Summary Assign a ticket to a user
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssignTicketRequest true "Assignment data"
// @Success 200 {object} model.Ticket
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tickets/assign [post]
func (h *TicketHandler) Assign(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req AssignTicketRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}
	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		return badRequest("invalid ticket id")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return badRequest("invalid user id")
	}

	ticket, err := h.ticketService.Assign(c.Request().Context(), identity, ticketID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// UpdateStatus godoc
// @Summary Update a ticket's status
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} model.Ticket
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tickets/{id}/status [patch]
func (h *TicketHandler) UpdateStatus(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid ticket id")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	ticket, err := h.ticketService.UpdateStatus(c.Request().Context(), identity, ticketID, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// UpdateMyStatus godoc
// @Summary Update the status of a ticket assigned to the caller
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} model.Ticket
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tickets/my/{id}/status [patch]
func (h *TicketHandler) UpdateMyStatus(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid ticket id")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	ticket, err := h.ticketService.UpdateMyStatus(c.Request().Context(), identity, ticketID, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ticket)
}
