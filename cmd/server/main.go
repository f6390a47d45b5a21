// Package main is the entry point for the wallet API server.
// It initializes all dependencies, sets up the HTTP server, starts the
// daily fraud scan scheduler, and shuts everything down gracefully.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"paisa/internal/config"
	"paisa/internal/logger"
	"paisa/internal/repositories"
	"paisa/internal/routes"
	"paisa/internal/scanner"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()
	log := logger.New()

	if err := repositories.InitDB(); err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.WithError(err).Warn("failed to close database connection")
				}
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.WithError(err).Warn("failed to close redis connection")
			}
		}
	}()
	log.Info("database connected, migrations applied")

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/auth", limiter.New(limiter.Config{
		Max: config.GetIntEnv("AUTH_RATE_LIMIT", 20),
	}))

	txnRepo, flagRepo := routes.SetupRoutes(app, repositories.DB, log)

	// The daily fraud scan shares only the ledger read interface and the
	// flag append interface with live traffic.
	dailyScan := scanner.NewScanner(txnRepo, flagRepo, nil, log)
	sched, err := scanner.NewScheduler(dailyScan, log)
	if err != nil {
		log.WithError(err).Fatal("failed to schedule daily fraud scan")
	}
	sched.Start()

	if config.GetEnv("SCAN_ON_STARTUP", "") == "true" {
		go func() {
			if err := dailyScan.RunOnce(context.Background()); err != nil {
				log.WithError(err).Error("startup fraud scan failed")
			}
		}()
	}

	go func() {
		port := config.GetEnv("PORT", "8000")
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	sched.Stop()
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
}
