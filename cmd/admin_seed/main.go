// Command admin_seed creates the initial admin account from environment
// configuration. It is idempotent: an existing account is left untouched.
package main

import (
	"context"
	"log"
	"os"

	"paisa/internal/config"
	"paisa/internal/models"
	"paisa/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				sqlDB.Close()
			}
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	ctx := context.Background()
	users := repositories.NewUserRepository(repositories.DB)

	if _, err := users.GetByEmail(ctx, adminEmail); err == nil {
		log.Println("admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password:", err)
	}

	admin := &models.User{
		Name:     config.GetEnv("ADMIN_NAME", "Administrator"),
		Email:    adminEmail,
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal("failed to create admin user:", err)
	}

	log.Println("admin account created")
}
