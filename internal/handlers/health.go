package handlers

import (
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports liveness of the API and its dependencies.
type HealthHandler struct {
	db    *gorm.DB
	cache *cache.Service
}

// NewHealthHandler creates a health handler. cacheService may be nil
// when the API runs without Redis.
func NewHealthHandler(db *gorm.DB, cacheService *cache.Service) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheService}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	overall := "ok"
	status := fiber.StatusOK

	database := "connected"
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Context())
	}
	if err != nil {
		database = "unreachable"
		overall = "degraded"
		status = fiber.StatusServiceUnavailable
	}

	// Redis is optional; without it the API still serves, just slower
	// and unthrottled.
	redis := "disabled"
	if h.cache != nil {
		redis = "connected"
		if err := h.cache.HealthCheck(c.Context()); err != nil {
			redis = "unreachable"
			overall = "degraded"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"services": fiber.Map{
			"database": database,
			"redis":    redis,
		},
	})
}
