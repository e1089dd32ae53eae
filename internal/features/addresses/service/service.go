package service

import (
	"context"
	"errors"
	"fmt"

	"booking-checkout/internal/features/addresses/domain"
	"booking-checkout/internal/features/addresses/ports"
)

// AddressService implements ports.AddressBook.
type AddressService struct {
	repo ports.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo ports.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// List returns the user's addresses, default first.
func (s *AddressService) List(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Get returns a single address owned by the user.
func (s *AddressService) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	a, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, wrap("get", err)
	}
	return a, nil
}

// Save validates and upserts the address.
func (s *AddressService) Save(ctx context.Context, userID string, address domain.Address) (*domain.Address, bool, error) {
	address.Normalize()
	if err := address.Validate(); err != nil {
		return nil, false, err
	}
	address.UserID = userID

	if address.ID == "" {
		if err := s.repo.Insert(ctx, &address); err != nil {
			return nil, false, wrap("insert", err)
		}
		return &address, true, nil
	}

	if err := s.repo.Update(ctx, &address); err != nil {
		return nil, false, wrap("update", err)
	}
	return &address, false, nil
}

// Delete removes the address once the caller has confirmed.
func (s *AddressService) Delete(ctx context.Context, userID, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return wrap("delete", err)
	}
	return nil
}

// SetDefault makes id the user's default address.
func (s *AddressService) SetDefault(ctx context.Context, userID, id string) error {
	if err := s.repo.SetDefault(ctx, userID, id); err != nil {
		return wrap("set default", err)
	}
	return nil
}

func wrap(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("service: failed to %s address: %w", op, err)
}
