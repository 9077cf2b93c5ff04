package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTicketNotFound is returned when a ticket is not found.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccessDenied is returned when the actor's role or ownership does not
	// satisfy the operation's policy.
	ErrAccessDenied = errors.New("access denied")
	// ErrTicketNotAssigned is returned when a USER touches a ticket that is not
	// assigned to them. Mapped to the same 403 body as ErrAccessDenied so the
	// response does not reveal whether the ticket exists.
	ErrTicketNotAssigned = errors.New("ticket not assigned to user")
	// ErrProjectNameRequired is returned when a project is created without a name.
	ErrProjectNameRequired = errors.New("project name is required")
	// ErrTicketTitleRequired is returned when a ticket is created without a title.
	ErrTicketTitleRequired = errors.New("ticket title is required")
	// ErrCommentTextRequired is returned when a comment has no text after trimming.
	ErrCommentTextRequired = errors.New("comment text is required")
	// ErrInvalidStatus is returned for a status outside TODO/IN_PROGRESS/DONE.
	ErrInvalidStatus = errors.New("invalid ticket status")
	// ErrNotAManager is returned when assigning a project to a non-manager user.
	ErrNotAManager = errors.New("user is not a manager")
	// ErrManagerAlreadyAssigned is returned when the manager is already a member.
	ErrManagerAlreadyAssigned = errors.New("manager already assigned to project")
	// ErrAssigneeNotAllowed is returned when assigning a ticket to an admin.
	ErrAssigneeNotAllowed = errors.New("tickets cannot be assigned to an admin")
	// ErrPartialDelete is returned when a cascading project delete failed before
	// all dependent records were removed. Never reported as success.
	ErrPartialDelete = errors.New("project delete did not complete")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrProjectNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROJECT_NOT_FOUND")
	case errors.Is(err, ErrTicketNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TICKET_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrManagerAlreadyAssigned):
		return NewHTTPError(http.StatusConflict, err.Error(), "MANAGER_ALREADY_ASSIGNED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccessDenied), errors.Is(err, ErrTicketNotAssigned):
		return NewHTTPError(http.StatusForbidden, ErrAccessDenied.Error(), "ACCESS_DENIED")
	case errors.Is(err, ErrProjectNameRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PROJECT_NAME_REQUIRED")
	case errors.Is(err, ErrTicketTitleRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TICKET_TITLE_REQUIRED")
	case errors.Is(err, ErrCommentTextRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "COMMENT_TEXT_REQUIRED")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrNotAManager):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOT_A_MANAGER")
	case errors.Is(err, ErrAssigneeNotAllowed):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ASSIGNEE_NOT_ALLOWED")
	case errors.Is(err, ErrPartialDelete):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "PARTIAL_DELETE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
