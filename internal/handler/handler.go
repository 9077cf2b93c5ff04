package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bugtrail/internal/auth"
	apperrors "bugtrail/internal/errors"
	"bugtrail/internal/middleware"
)

// httpError translates a service error into an echo HTTP error with the
// standard response body.
func httpError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// requireIdentity returns the resolved identity or a 401. The middleware chain
// guarantees presence on secured routes; this is the defensive fallback.
func requireIdentity(c echo.Context) (auth.Identity, error) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Message: "not authenticated",
			Code:    "UNAUTHENTICATED",
		})
	}
	return identity, nil
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Message: message,
		Code:    "BAD_REQUEST",
	})
}
