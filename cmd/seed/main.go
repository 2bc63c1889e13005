package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/pinit-down/config"
	"github.com/oksasatya/pinit-down/internal/application"
	"github.com/oksasatya/pinit-down/internal/container"
	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
	"github.com/oksasatya/pinit-down/pkg/helpers"
)

func main() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// the seed only needs the store
	cfg.RateLimitEnabled = false
	cfg.MailSendEnabled = false
	cfg.ElasticsearchAddrs = ""

	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	helpers.SetBcryptCost(cfg.BcryptCost)

	ctx := context.Background()
	c, err := container.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	defer c.Close()

	email := application.NormalizeEmail(getenv("SEED_EMAIL", "demo@pinit-down.local"))
	password := getenv("SEED_PASSWORD", "password123")
	name := getenv("SEED_NAME", "Demo User")

	u, err := c.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		fmt.Printf("user exists: id=%s email=%s\n", u.ID, u.Email)
	case errors.Is(err, repository.ErrNotFound):
		hash, err := helpers.HashPassword(password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		u = &entity.User{Email: email, Password: hash, Name: name}
		if err := c.Users.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
		fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, email, name, password)
	default:
		log.Fatalf("lookup user: %v", err)
	}

	verified := true
	if err := c.Users.UpdateFields(ctx, u.ID, repository.UserFields{IsEmailVerified: &verified}); err != nil {
		log.Fatalf("failed to mark user verified: %v", err)
	}
	if err := c.Users.ClearVerificationToken(ctx, u.ID); err != nil {
		log.Fatalf("failed to clear verification token: %v", err)
	}
	fmt.Println("seeded user is verified")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
