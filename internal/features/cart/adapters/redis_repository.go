package adapters

import (
	"context"
	"fmt"
	"time"

	"booking-checkout/internal/core/cache"
	"booking-checkout/internal/features/cart/domain"
)

const cartKeyPrefix = "cart:"

// RedisCartRepository implements ports.CartRepository using the cache adapter.
type RedisCartRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisCartRepository creates a new RedisCartRepository.
// Every save pushes the expiry ttl further out.
func NewRedisCartRepository(c cache.Cache, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		cache: c,
		ttl:   ttl,
	}
}

// Get retrieves the session's cart, or an empty one.
func (r *RedisCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart
	if _, err := cache.GetJSON(ctx, r.cache, cartKeyPrefix+sessionID, &cart); err != nil {
		return nil, fmt.Errorf("failed to get cart from cache: %w", err)
	}
	return &cart, nil
}

// Save stores the cart.
func (r *RedisCartRepository) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	if err := cache.SetJSON(ctx, r.cache, cartKeyPrefix+sessionID, cart, r.ttl); err != nil {
		return fmt.Errorf("failed to save cart to cache: %w", err)
	}
	return nil
}
