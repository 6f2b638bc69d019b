// Package middleware provides HTTP middleware components for the application.
// It includes authentication, authorization, and rate limiting middleware
// that can be used with the fiber web framework.
package middleware

import (
	"log"
	"strings"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Auth validates JWT tokens and adds the claims to the request context.
// Tokens are issued by the identity service; this only verifies the
// signature and expiry, then exposes the claims under c.Locals.
func Auth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// RequireAdmin verifies that the request has valid admin claims. It
// must run after Auth.
func RequireAdmin(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	if !claims.IsAdmin() {
		log.Printf("Access denied: user %d role is %s, not admin", claims.UserID, claims.Role)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}

	return c.Next()
}
