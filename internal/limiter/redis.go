package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps window counters in Redis so limits hold across
// processes. A counter's TTL is its reset clock.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed counter store. Panics if client
// is nil.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("limiter: redis client is required")
	}
	return &RedisStore{client: client}
}

// Increment bumps the counter under key. INCR and PTTL run in a single
// pipelined round trip; the first hit of a window (TTL missing) starts
// the expiry clock.
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	ttl := pttl.Val()
	if ttl < 0 {
		// Fresh counter, or one that somehow lost its expiry: this hit
		// opens the window.
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		ttl = window
	}
	return incr.Val(), time.Now().Add(ttl), nil
}
