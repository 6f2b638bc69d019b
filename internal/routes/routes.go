// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"time"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/config"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/handlers"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/limiter"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/middleware"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/repositories/cache"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/services/earning"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/services/redemption"
	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
// redisClient may be nil; caching and throttling then run on in-process
// fallbacks instead of blocking coin operations.
func SetupRoutes(app *fiber.App, db *gorm.DB, redisClient *redis.Client) {
	// Initialize repositories
	walletRepo := repositories.NewWalletRepository(db)
	earnRuleRepo := repositories.NewEarnRuleRepository(db)
	rewardRepo := repositories.NewRewardRepository(db)

	var (
		cacheService *cache.Service
		walletCache  wallet.Cache         = wallet.NoopCache{}
		counterStore limiter.CounterStore = limiter.NewMemoryStore()
	)
	if redisClient != nil {
		cacheService = cache.NewService(redisClient, wallet.CacheTTL)
		walletCache = cacheService
		counterStore = limiter.NewRedisStore(redisClient)
	}
	rateLimiter := limiter.New(counterStore)

	// Initialize services
	walletService := wallet.NewService(walletRepo, walletCache, nil)
	earningService := earning.NewService(earnRuleRepo, walletRepo, rateLimiter, walletCache, nil)
	redemptionService := redemption.NewService(rewardRepo, walletRepo, walletCache, nil)

	// Initialize handlers
	coinsHandler := handlers.NewCoinsHandler(walletService, earningService, redemptionService)
	rewardsHandler := handlers.NewRewardsHandler(rewardRepo)
	healthHandler := handlers.NewHealthHandler(db, cacheService)

	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")
	api.Use(middleware.RateLimit(rateLimiter, limiter.Config{
		MaxRequests: config.GetIntEnv("API_RATE_LIMIT", 120),
		Window:      config.GetDurationEnv("API_RATE_WINDOW", time.Minute),
		Prefix:      "api",
	}, middleware.KeyByIP))

	// Protected routes with auth middleware
	protected := api.Use(middleware.Auth)

	setupCoinRoutes(protected, coinsHandler)
	setupRewardRoutes(protected, rewardsHandler)
	setupAdminRoutes(app, coinsHandler)
}

func setupCoinRoutes(router fiber.Router, h *handlers.CoinsHandler) {
	coins := router.Group("/coins")

	coins.Get("/wallet", h.GetWallet)
	coins.Get("/wallet/audit", h.Audit)
	coins.Get("/transactions", h.ListTransactions)
	coins.Get("/tasks", h.ListTasks)
	coins.Post("/earn", h.Earn)
	coins.Post("/redeem", h.Redeem)
}

func setupRewardRoutes(router fiber.Router, h *handlers.RewardsHandler) {
	rewards := router.Group("/rewards")

	rewards.Get("/", h.ListRewards)
	rewards.Get("/:id", h.GetReward)
}

func setupAdminRoutes(app *fiber.App, coinsHandler *handlers.CoinsHandler) {
	admin := app.Group("/api/admin", middleware.Auth, middleware.RequireAdmin)

	admin.Post("/coins/refund", coinsHandler.Refund)
}
