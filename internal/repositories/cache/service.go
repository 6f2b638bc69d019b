package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/codexdhruv11/Health-Insurance-Help-Desk-sub001/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss marks a key that is not in the cache. Callers fall back
// to the database on it.
var ErrCacheMiss = errors.New("cache: key not found")

// Service wraps a Redis client with JSON serialization and the key
// vocabulary used for wallets.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService creates a cache service with defaultTTL applied to Set.
// Panics if client is nil.
func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	if client == nil {
		panic("cache: redis client is required")
	}
	return &Service{client: client, ttl: defaultTTL}
}

// GenerateKey builds a namespaced cache key.
func (s *Service) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Set stores value under key for the default TTL.
func (s *Service) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

// SetWithTTL stores value under key for an explicit TTL.
func (s *Service) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get loads key into dest. Returns ErrCacheMiss when the key is absent.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (s *Service) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// SetWallet caches a wallet under its owner's key.
func (s *Service) SetWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil {
		return errors.New("cannot cache nil wallet")
	}
	return s.Set(ctx, s.GenerateKey("wallet", "user", wallet.UserID), wallet)
}

// GetWallet loads the cached wallet for a user, or ErrCacheMiss.
func (s *Service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.Get(ctx, s.GenerateKey("wallet", "user", userID), &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// InvalidateWallet drops the cached wallet for a user. Every balance
// writer calls this after committing.
func (s *Service) InvalidateWallet(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.GenerateKey("wallet", "user", userID))
}

// HealthCheck verifies the Redis connection.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (s *Service) Close() error {
	return s.client.Close()
}
