// Package middleware provides HTTP middleware for the fiber app:
// JWT bearer authentication and the admin gate.
package middleware

import (
	"strings"

	"paisa/internal/models"
	"paisa/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and stores the claims and user
// id in the request locals.
func RequireAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.Unauthorized(c, "missing authorization header")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return utils.Unauthorized(c, "invalid authorization format")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString, jwtSecret)
		if err != nil {
			return utils.Unauthorized(c, "invalid or expired token")
		}

		c.Locals("claims", claims)
		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// RequireAdmin verifies the authenticated claims carry the admin flag.
// It must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok || claims == nil {
			return utils.Unauthorized(c, "invalid claims")
		}
		if !claims.IsAdmin {
			return utils.Forbidden(c, "admins only")
		}
		return c.Next()
	}
}
