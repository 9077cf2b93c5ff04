package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"bugtrail/internal/auth"
	apperrors "bugtrail/internal/errors"
	"bugtrail/internal/repository"
)

const identityContextKey = "identity"

// GetIdentity returns the resolved identity for the request, if any. The role
// comes from storage, not from the token, so role changes take effect within a
// token's validity window.
func GetIdentity(c echo.Context) (auth.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(auth.Identity)
	return identity, ok
}

// Authenticate resolves the caller's identity after echo-jwt has verified the
// bearer token. It rejects revoked tokens, re-fetches the user record and
// attaches a typed Identity for downstream handlers. No entity is mutated.
func Authenticate(users repository.UserRepository, tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return unauthorized("authorization token missing", "MISSING_TOKEN")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return unauthorized("invalid or expired token", "INVALID_TOKEN")
			}

			if claims.ID != "" {
				revoked, _ := tokens.IsTokenRevoked(c.Request().Context(), claims.ID)
				if revoked {
					return unauthorized("invalid or expired token", "TOKEN_REVOKED")
				}
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return unauthorized("user no longer exists", "USER_NOT_FOUND")
			}

			c.Set(identityContextKey, auth.Identity{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
				Role:  user.Role,
			})
			return next(c)
		}
	}
}

// RequireRoles permits the request only when the resolved identity's role is
// in the allow-set. It knows nothing about entity-level rules (ownership,
// assignment); those live in the services.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := GetIdentity(c)
			if !ok {
				// Defensive: should not happen when ordered after Authenticate.
				return unauthorized("not authenticated", "UNAUTHENTICATED")
			}
			for _, role := range roles {
				if identity.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Message: "access denied",
				Code:    "ACCESS_DENIED",
			})
		}
	}
}

func unauthorized(message, code string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Message: message,
		Code:    code,
	})
}
