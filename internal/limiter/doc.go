// Package limiter implements a counting rate limiter over fixed time
// windows.
//
// A RateLimiter is configured per call site through Config, so one
// limiter instance can serve many independent limits: per-IP request
// throttling, per-user action cooldowns, or anything else that can be
// named by a string identifier. Counters live in a CounterStore; the
// Redis store shares limits across processes while the memory store
// suits tests and single-process deployments.
//
// The limiter counts attempts, not successes. Every Check consumes one
// slot of the window, including checks that come back denied.
package limiter
