package ports

import (
	"context"

	"booking-checkout/internal/features/cart/domain"
)

// CartService defines the primary port for cart operations.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, v domain.Variant, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) (*domain.Cart, error)
	Close(ctx context.Context, sessionID string) (*domain.Cart, error)
}

// CartRepository defines the secondary port for cart storage.
type CartRepository interface {
	// Get returns an empty cart when the session has none.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error
}
