package limiter

import (
	"context"
	"time"
)

// Config describes one limit. A limit with MaxRequests or Window at or
// below zero is disabled and always allows.
type Config struct {
	// MaxRequests is the number of allowed hits per window.
	MaxRequests int
	// Window is the fixed counting window length.
	Window time.Duration
	// Prefix namespaces counter keys so independent limits on the same
	// identifier do not collide.
	Prefix string
}

// Enabled reports whether the config describes an active limit.
func (c Config) Enabled() bool {
	return c.MaxRequests > 0 && c.Window > 0
}

// Result is the outcome of a single Check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the caller should wait for the window to
// reset. Zero when the check was allowed or the window already passed.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed {
		return 0
	}
	d := r.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// CounterStore increments the counter under key and reports the count
// inside the current window plus the instant the window resets. The
// first increment of a window starts its expiry clock.
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// RateLimiter counts hits in fixed windows on top of a CounterStore.
type RateLimiter struct {
	store CounterStore
}

// New creates a rate limiter backed by store. Panics if store is nil.
func New(store CounterStore) *RateLimiter {
	if store == nil {
		panic("limiter: counter store is required")
	}
	return &RateLimiter{store: store}
}

// Check records one hit for identifier under cfg and reports whether it
// fits within the limit. Disabled configs allow without touching the
// store. Store failures are returned to the caller, which decides
// whether to fail open or closed.
func (l *RateLimiter) Check(ctx context.Context, identifier string, cfg Config) (Result, error) {
	if !cfg.Enabled() {
		return Result{Allowed: true, Limit: cfg.MaxRequests}, nil
	}

	count, resetAt, err := l.store.Increment(ctx, l.key(cfg.Prefix, identifier), cfg.Window)
	if err != nil {
		return Result{}, err
	}

	remaining := int64(cfg.MaxRequests) - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(cfg.MaxRequests),
		Limit:     cfg.MaxRequests,
		Remaining: int(remaining),
		ResetAt:   resetAt,
	}, nil
}

func (l *RateLimiter) key(prefix, identifier string) string {
	if prefix == "" {
		return identifier
	}
	return prefix + ":" + identifier
}
