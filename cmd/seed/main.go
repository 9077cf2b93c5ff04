package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bugtrail/internal/config"
	"bugtrail/internal/db"
	"bugtrail/internal/model"
	"bugtrail/internal/repository"
)

const seedPassword = "password123"

// seedUser describes a demo account to create.
type seedUser struct {
	Name  string
	Email string
	Role  string
}

var seedUsers = []seedUser{
	{Name: "Ada Admin", Email: "admin@bugtrail.local", Role: model.RoleAdmin},
	{Name: "Milo Manager", Email: "manager@bugtrail.local", Role: model.RoleManager},
	{Name: "Dana Dev", Email: "dana@bugtrail.local", Role: model.RoleUser},
	{Name: "Theo Tester", Email: "theo@bugtrail.local", Role: model.RoleUser},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Ticket{},
		&model.Comment{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	ticketRepo := repository.NewTicketRepository(gormDB)

	users, created, err := ensureUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users ready (%d created)", created)

	admin := users["admin@bugtrail.local"]
	manager := users["manager@bugtrail.local"]
	dana := users["dana@bugtrail.local"]

	project, err := ensureProject(ctx, projectRepo, admin, manager)
	if err != nil {
		log.Fatalf("Failed to seed project: %v", err)
	}
	log.Printf("Demo project ready: %s", project.Name)

	if err := ensureTickets(ctx, ticketRepo, project, dana); err != nil {
		log.Fatalf("Failed to seed tickets: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Login with any of the seeded emails, password %q", seedPassword)
}

// ensureUsers creates the demo accounts that do not exist yet.
func ensureUsers(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		return nil, 0, err
	}

	byEmail := make(map[string]*model.User, len(seedUsers))
	created := 0
	for _, su := range seedUsers {
		existing, err := repo.FindByEmail(ctx, su.Email)
		if err == nil {
			byEmail[su.Email] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, created, err
		}

		user := &model.User{
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: string(hash),
			Role:         su.Role,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, created, err
		}
		byEmail[su.Email] = user
		created++
	}
	return byEmail, created, nil
}

// ensureProject creates the demo project once, owned by the admin with the
// manager assigned.
func ensureProject(ctx context.Context, repo repository.ProjectRepository, admin, manager *model.User) (*model.Project, error) {
	existing, err := repo.ListByOwner(ctx, admin.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	project := &model.Project{
		Name:        "Demo Project",
		Description: "Seeded project for local development",
		OwnerID:     admin.ID,
	}
	if err := repo.Create(ctx, project); err != nil {
		return nil, err
	}
	if err := repo.AddMember(ctx, project, admin); err != nil {
		return nil, err
	}
	if err := repo.AddMember(ctx, project, manager); err != nil {
		return nil, err
	}
	return project, nil
}

// ensureTickets creates a couple of demo tickets assigned to a user.
func ensureTickets(ctx context.Context, repo repository.TicketRepository, project *model.Project, assignee *model.User) error {
	existing, err := repo.ListByProject(ctx, project.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	tickets := []model.Ticket{
		{
			Title:       "Login page crashes on empty password",
			Description: "Submitting the login form with an empty password throws a 500.",
			Status:      model.StatusTodo,
			Priority:    model.PriorityHigh,
			ProjectID:   project.ID,
			AssigneeID:  &assignee.ID,
		},
		{
			Title:       "Ticket list ordering",
			Description: "Newest tickets should appear first on the board.",
			Status:      model.StatusTodo,
			Priority:    model.PriorityMedium,
			ProjectID:   project.ID,
			AssigneeID:  &assignee.ID,
		},
	}
	for i := range tickets {
		if err := repo.Create(ctx, &tickets[i]); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d tickets", len(tickets))
	return nil
}
