package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/task-tracker-api/config"
	"github.com/oksasatya/task-tracker-api/internal/application"
	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/internal/infrastructure/filestore"
	"github.com/oksasatya/task-tracker-api/pkg/helpers"
)

// seed creates the admin account. Signup never grants admin on its own, so
// this is how the first admin gets in.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		log.Fatalf("failed to create data dir: %v", err)
	}
	users, err := filestore.NewUserStore(cfg.UsersFile())
	if err != nil {
		log.Fatalf("failed to open user store: %v", err)
	}

	auth := application.NewAuthService(users, nil, logger, application.AuthOptions{
		PasswordCost:          cfg.BcryptCost,
		AllowSelfAssignedRole: true,
	})
	u, err := auth.Signup(context.Background(), application.SignupInput{
		Name:     cfg.SeedAdminName,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Role:     entity.RoleAdmin,
	})
	if errors.Is(err, application.ErrDuplicateEmail) {
		fmt.Printf("admin already present: email=%s\n", entity.NormalizeEmail(cfg.SeedAdminEmail))
		return
	}
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%d email=%s name=%s\n", u.ID, u.Email, u.Name)
}
