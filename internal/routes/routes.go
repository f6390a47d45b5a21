// Package routes defines the API routing configuration.
// It wires repositories, services and handlers, and applies the
// authentication middleware per route group.
package routes

import (
	"paisa/internal/config"
	"paisa/internal/handlers"
	"paisa/internal/middleware"
	"paisa/internal/repositories"
	"paisa/internal/services/admin"
	"paisa/internal/services/auth"
	"paisa/internal/services/fraud"
	"paisa/internal/services/ledger"
	"paisa/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes and returns the wired
// ledger dependencies for reuse by the scheduler.
func SetupRoutes(app *fiber.App, db *gorm.DB, log *logrus.Logger) (repositories.TransactionRepository, repositories.FlagRepository) {
	userRepo := repositories.NewUserRepository(db)
	txnRepo := repositories.NewTransactionRepository(db)
	flagRepo := repositories.NewFlagRepository(db)
	runner := repositories.NewTxRunner(db)

	jwtSecret := config.GetEnv("JWT_SECRET", "paisa-dev-secret")

	authService := auth.NewService(userRepo, jwtSecret, log)
	fraudService := fraud.NewService(txnRepo, flagRepo, nil, log)
	ledgerService := ledger.NewService(
		userRepo,
		txnRepo,
		runner,
		repositories.CacheService,
		fraudService,
		nil,
		log,
		ledger.Config{},
	)
	userService := user.NewService(userRepo, repositories.CacheService)
	adminService := admin.NewService(userRepo, txnRepo, flagRepo)

	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(ledgerService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(adminService)

	app.Get("/health", handlers.Health)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	wallet := api.Group("/wallet", middleware.RequireAuth(jwtSecret))
	wallet.Post("/deposit", walletHandler.Deposit)
	wallet.Post("/withdraw", walletHandler.Withdraw)
	wallet.Post("/transfer", walletHandler.Transfer)
	wallet.Get("/history", walletHandler.History)

	userGroup := api.Group("/user", middleware.RequireAuth(jwtSecret))
	userGroup.Get("/profile", userHandler.Profile)

	adminGroup := api.Group("/admin", middleware.RequireAuth(jwtSecret), middleware.RequireAdmin())
	adminGroup.Get("/flags", adminHandler.Flags)
	adminGroup.Get("/total-balances", adminHandler.TotalBalances)
	adminGroup.Get("/top-users", adminHandler.TopUsers)
	adminGroup.Patch("/user/:id/delete", adminHandler.SoftDeleteUser)
	adminGroup.Patch("/transaction/:id/delete", adminHandler.SoftDeleteTransaction)

	return txnRepo, flagRepo
}
