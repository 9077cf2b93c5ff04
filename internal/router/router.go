package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bugtrail/internal/auth"
	"bugtrail/internal/config"
	apperrors "bugtrail/internal/errors"
	"bugtrail/internal/handler"
	"bugtrail/internal/middleware"
	"bugtrail/internal/model"
	"bugtrail/internal/repository"
)

// Register wires routes and middleware. Role allow-sets are fixed per route;
// entity-level rules (ownership, assignment) live in the services.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	projectHandler *handler.ProjectHandler,
	ticketHandler *handler.TicketHandler,
	commentHandler *handler.CommentHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes: echo-jwt verifies the signature, Authenticate re-fetches
	// the user so the effective role always comes from storage.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			TokenLookup: "header:" + echo.HeaderAuthorization,
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Message: "invalid or expired token",
					Code:    "INVALID_TOKEN",
				})
			},
		}),
		middleware.Authenticate(userRepo, tokenStore),
	)

	secured.POST("/auth/logout", authHandler.Logout)

	// Project routes
	projects := secured.Group("/projects")
	projects.GET("", projectHandler.List, middleware.RequireRoles(model.RoleAdmin, model.RoleManager, model.RoleUser))
	projects.POST("", projectHandler.Create, middleware.RequireRoles(model.RoleAdmin))
	projects.POST("/assign", projectHandler.AssignManager, middleware.RequireRoles(model.RoleAdmin))
	projects.DELETE("/:id", projectHandler.Delete, middleware.RequireRoles(model.RoleAdmin))
	projects.GET("/:id/users", projectHandler.ListUsers, middleware.RequireRoles(model.RoleAdmin, model.RoleManager))

	// Ticket routes
	tickets := secured.Group("/tickets")
	tickets.GET("", ticketHandler.List, middleware.RequireRoles(model.RoleAdmin, model.RoleManager))
	tickets.POST("", ticketHandler.Create, middleware.RequireRoles(model.RoleAdmin, model.RoleManager))
	tickets.GET("/my", ticketHandler.ListMine, middleware.RequireRoles(model.RoleUser))
	tickets.POST("/assign", ticketHandler.Assign, middleware.RequireRoles(model.RoleAdmin))
	tickets.PATCH("/my/:id/status", ticketHandler.UpdateMyStatus, middleware.RequireRoles(model.RoleUser))
	tickets.GET("/:id", ticketHandler.Get, middleware.RequireRoles(model.RoleAdmin, model.RoleManager, model.RoleUser))
	tickets.PATCH("/:id/status", ticketHandler.UpdateStatus, middleware.RequireRoles(model.RoleAdmin, model.RoleManager))
	tickets.GET("/:id/comments", commentHandler.ListByTicket, middleware.RequireRoles(model.RoleAdmin, model.RoleManager, model.RoleUser))
	tickets.POST("/:id/comments", commentHandler.Add, middleware.RequireRoles(model.RoleAdmin, model.RoleManager, model.RoleUser))

	// User routes
	users := secured.Group("/users")
	users.GET("", userHandler.List, middleware.RequireRoles(model.RoleAdmin))
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
