// Package cache provides the Redis-backed read cache for wallet
// lookups. The database stays authoritative; every cached value can be
// lost without losing data.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisClient creates a Redis client from cfg. The connection is
// established lazily; use Ping to verify reachability.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// Ping verifies the client can reach the server.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
