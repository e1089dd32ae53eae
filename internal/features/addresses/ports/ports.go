package ports

import (
	"context"

	"booking-checkout/internal/features/addresses/domain"
)

// AddressBook defines the primary port for address operations.
type AddressBook interface {
	// List returns the user's addresses, default first then oldest first.
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Get(ctx context.Context, userID, id string) (*domain.Address, error)
	// Save inserts when the id is empty and updates otherwise.
	// It reports whether a new address was created.
	Save(ctx context.Context, userID string, address domain.Address) (*domain.Address, bool, error)
	Delete(ctx context.Context, userID, id string, confirmed bool) error
	SetDefault(ctx context.Context, userID, id string) error
}

// AddressRepository defines the secondary port for address storage.
type AddressRepository interface {
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Get(ctx context.Context, userID, id string) (*domain.Address, error)
	// Insert stores a new address, marking it default when it is the user's first.
	Insert(ctx context.Context, address *domain.Address) error
	Update(ctx context.Context, address *domain.Address) error
	// Delete removes the address and promotes the oldest remaining one when the default goes.
	Delete(ctx context.Context, userID, id string) error
	SetDefault(ctx context.Context, userID, id string) error
}
