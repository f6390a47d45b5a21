package handlers

import (
	"paisa/internal/repositories"
	"paisa/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Health reports readiness of the database and cache.
func Health(c *fiber.Ctx) error {
	status := "ok"

	sqlDB, err := repositories.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "degraded"
	}
	if repositories.CacheService != nil {
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			status = "degraded"
		}
	}

	if status != "ok" {
		return utils.Respond(c, fiber.StatusServiceUnavailable, fiber.Map{"status": status})
	}
	return utils.Success(c, fiber.Map{"status": status})
}
