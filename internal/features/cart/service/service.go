package service

import (
	"context"
	"fmt"
	"time"

	"booking-checkout/internal/features/cart/domain"
	"booking-checkout/internal/features/cart/ports"
)

// CartServiceImpl implements ports.CartService.
type CartServiceImpl struct {
	repo ports.CartRepository
	now  func() time.Time
}

// NewCartService creates a new CartServiceImpl.
func NewCartService(repo ports.CartRepository) *CartServiceImpl {
	return &CartServiceImpl{
		repo: repo,
		now:  time.Now,
	}
}

// Get returns the session's cart.
func (s *CartServiceImpl) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get cart: %w", err)
	}
	return cart, nil
}

// AddItem adds a variant to the cart, merging with an identical row.
func (s *CartServiceImpl) AddItem(ctx context.Context, sessionID string, v domain.Variant, quantity int) (*domain.Cart, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.AddItem(v, quantity, s.now())
	})
}

// UpdateQuantity changes a row's quantity. Quantities below one leave the cart as is.
func (s *CartServiceImpl) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.UpdateQuantity(itemID, quantity)
	})
}

// RemoveItem deletes a row.
func (s *CartServiceImpl) RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.RemoveItem(itemID)
	})
}

// Clear empties the cart.
func (s *CartServiceImpl) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.Clear()
	})
}

// Close collapses the cart panel.
func (s *CartServiceImpl) Close(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) {
		c.Open = false
	})
}

func (s *CartServiceImpl) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart)) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}

	fn(cart)

	if err := s.repo.Save(ctx, sessionID, cart); err != nil {
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}
	return cart, nil
}
