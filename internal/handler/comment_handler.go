package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bugtrail/internal/service"
)

// CommentHandler handles ticket comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// AddCommentRequest represents a comment creation request.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// Add godoc
// @Summary Add a comment to a ticket
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param request body AddCommentRequest true "Comment text"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tickets/{id}/comments [post]
func (h *CommentHandler) Add(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid ticket id")
	}

	var req AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	comment, err := h.commentService.Add(c.Request().Context(), identity, ticketID, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListByTicket godoc
// @Summary List a ticket's comments oldest-first
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {array} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Router /tickets/{id}/comments [get]
func (h *CommentHandler) ListByTicket(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest("invalid ticket id")
	}

	comments, err := h.commentService.ListByTicket(c.Request().Context(), identity, ticketID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comments)
}
