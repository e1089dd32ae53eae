package adapters

import (
	"context"
	"fmt"
	"time"

	"booking-checkout/internal/core/cache"
	"booking-checkout/internal/features/trim/domain"
)

// RedisEditorRepository implements ports.EditorRepository using the cache adapter.
type RedisEditorRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisEditorRepository creates a new RedisEditorRepository.
func NewRedisEditorRepository(c cache.Cache, ttl time.Duration) *RedisEditorRepository {
	return &RedisEditorRepository{cache: c, ttl: ttl}
}

func editorKey(sessionID, id string) string {
	return "trim:" + sessionID + ":" + id
}

func (r *RedisEditorRepository) Get(ctx context.Context, sessionID, id string) (*domain.Editor, error) {
	var editor domain.Editor
	found, err := cache.GetJSON(ctx, r.cache, editorKey(sessionID, id), &editor)
	if err != nil {
		return nil, fmt.Errorf("failed to get trim session from cache: %w", err)
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return &editor, nil
}

func (r *RedisEditorRepository) Save(ctx context.Context, sessionID string, editor *domain.Editor) error {
	if err := cache.SetJSON(ctx, r.cache, editorKey(sessionID, editor.ID), editor, r.ttl); err != nil {
		return fmt.Errorf("failed to save trim session to cache: %w", err)
	}
	return nil
}
