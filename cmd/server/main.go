package main

import (
	"log"
	"net/http"
	"os"

	_ "bugtrail/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"bugtrail/internal/auth"
	"bugtrail/internal/cache"
	"bugtrail/internal/config"
	"bugtrail/internal/db"
	"bugtrail/internal/handler"
	"bugtrail/internal/model"
	"bugtrail/internal/repository"
	"bugtrail/internal/router"
	"bugtrail/internal/service"
)

// @title Bugtrail API
// @version 1.0
// @description Role-based bug tracker API with projects, tickets, comments and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Printf("database close: %v", err)
		}
	}()

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Comment{},
			&model.Ticket{},
			&model.Project{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Ticket{},
		&model.Comment{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	ticketRepo := repository.NewTicketRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo)
	projectService := service.NewProjectService(projectRepo, ticketRepo, userRepo)
	ticketService := service.NewTicketService(ticketRepo, projectRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, ticketRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	commentHandler := handler.NewCommentHandler(commentService)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		tokenStore,
		authHandler,
		userHandler,
		projectHandler,
		ticketHandler,
		commentHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
