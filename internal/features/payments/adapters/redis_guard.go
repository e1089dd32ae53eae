package adapters

import (
	"context"
	"fmt"
	"time"

	"booking-checkout/internal/core/cache"
)

const processingKeyPrefix = "payment:processing:"

// RedisGuard marks a session as having a payment in flight.
// The key expires on its own so a crashed capture cannot lock the session forever.
type RedisGuard struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisGuard creates a new RedisGuard.
func NewRedisGuard(c cache.Cache, ttl time.Duration) *RedisGuard {
	return &RedisGuard{cache: c, ttl: ttl}
}

// Acquire reports whether the caller now holds the session's payment slot.
func (g *RedisGuard) Acquire(ctx context.Context, sessionID string) (bool, error) {
	ok, err := g.cache.SetNX(ctx, processingKeyPrefix+sessionID, []byte("1"), g.ttl)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment in flight: %w", err)
	}
	return ok, nil
}

// Release frees the session's payment slot.
func (g *RedisGuard) Release(ctx context.Context, sessionID string) error {
	if err := g.cache.Delete(ctx, processingKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("failed to clear payment flag: %w", err)
	}
	return nil
}
