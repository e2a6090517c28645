// Package ratelimit throttles conflict checks per firm.
//
// MemoryLimiter is an in-memory token bucket suitable for a single instance.
// A shared store can be substituted behind the Limiter interface when the
// service runs as several replicas.
package ratelimit

import "context"

// Limiter decides whether a request identified by key should be allowed.
// Implementations must be safe for concurrent use.
type Limiter interface {
	// Allow returns true if the request should proceed.
	// The key is opaque; callers construct it (e.g. "firm:42").
	// Returning an error signals a limiter malfunction; callers should
	// treat errors as fail-open (permit the request) rather than blocking traffic.
	Allow(ctx context.Context, key string) (bool, error)

	// Close releases resources (cleanup goroutines, connections).
	Close() error
}

// NoopLimiter permits every request. Used when rate limiting is disabled.
type NoopLimiter struct{}

// Allow always returns true.
func (NoopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

// Close is a no-op.
func (NoopLimiter) Close() error { return nil }

// New returns a MemoryLimiter when enabled, otherwise a NoopLimiter.
func New(enabled bool, rate float64, burst int) Limiter {
	if !enabled {
		return NoopLimiter{}
	}
	return NewMemoryLimiter(rate, burst)
}
