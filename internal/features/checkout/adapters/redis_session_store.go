package adapters

import (
	"context"
	"fmt"
	"time"

	"booking-checkout/internal/core/cache"
	"booking-checkout/internal/features/checkout/domain"
)

const (
	draftKeyPrefix        = "checkout:data:"
	wizardKeyPrefix       = "checkout:wizard:"
	confirmationKeyPrefix = "order:confirmation:"
)

// RedisSessionStore implements ports.SessionStore using the cache adapter.
// All checkout keys of a session share one ttl.
type RedisSessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisSessionStore creates a new RedisSessionStore.
func NewRedisSessionStore(c cache.Cache, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{cache: c, ttl: ttl}
}

func (s *RedisSessionStore) GetDraft(ctx context.Context, sessionID string) (*domain.Draft, error) {
	var draft domain.Draft
	found, err := cache.GetJSON(ctx, s.cache, draftKeyPrefix+sessionID, &draft)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from cache: %w", err)
	}
	if !found {
		return nil, domain.ErrNoDraft
	}
	return &draft, nil
}

func (s *RedisSessionStore) SaveDraft(ctx context.Context, sessionID string, draft *domain.Draft) error {
	if err := cache.SetJSON(ctx, s.cache, draftKeyPrefix+sessionID, draft, s.ttl); err != nil {
		return fmt.Errorf("failed to save draft to cache: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) DeleteDraft(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, draftKeyPrefix+sessionID)
}

func (s *RedisSessionStore) GetWizard(ctx context.Context, sessionID string) (*domain.Wizard, error) {
	var wizard domain.Wizard
	found, err := cache.GetJSON(ctx, s.cache, wizardKeyPrefix+sessionID, &wizard)
	if err != nil {
		return nil, fmt.Errorf("failed to get wizard from cache: %w", err)
	}
	if !found {
		return nil, domain.ErrNotStarted
	}
	return &wizard, nil
}

func (s *RedisSessionStore) SaveWizard(ctx context.Context, sessionID string, wizard *domain.Wizard) error {
	if err := cache.SetJSON(ctx, s.cache, wizardKeyPrefix+sessionID, wizard, s.ttl); err != nil {
		return fmt.Errorf("failed to save wizard to cache: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) DeleteWizard(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, wizardKeyPrefix+sessionID)
}

func (s *RedisSessionStore) SaveConfirmation(ctx context.Context, sessionID string, confirmation *domain.Confirmation) error {
	if err := cache.SetJSON(ctx, s.cache, confirmationKeyPrefix+sessionID, confirmation, s.ttl); err != nil {
		return fmt.Errorf("failed to save confirmation to cache: %w", err)
	}
	return nil
}

// TakeConfirmation reads the confirmation and deletes it.
func (s *RedisSessionStore) TakeConfirmation(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	key := confirmationKeyPrefix + sessionID

	var confirmation domain.Confirmation
	found, err := cache.GetJSON(ctx, s.cache, key, &confirmation)
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmation from cache: %w", err)
	}
	if !found {
		return nil, domain.ErrNoConfirmation
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to clear confirmation: %w", err)
	}
	return &confirmation, nil
}
