package adapters

import (
	"context"
	"testing"
	"time"

	"booking-checkout/internal/core/cache"
	"booking-checkout/internal/features/trim/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisEditorRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	repo := NewRedisEditorRepository(store, 2*time.Hour)
	ctx := context.Background()

	_, err = repo.Get(ctx, "s1", "t1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	editor, err := domain.NewEditor("t1", "blob:abc", 30, time.Now())
	require.NoError(t, err)
	editor.DragStart(5)
	require.NoError(t, repo.Save(ctx, "s1", editor))

	assert.True(t, mr.Exists("trim:s1:t1"))
	assert.Equal(t, 2*time.Hour, mr.TTL("trim:s1:t1"))

	got, err := repo.Get(ctx, "s1", "t1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Start)
	assert.Equal(t, 30.0, got.End)

	_, err = repo.Get(ctx, "s2", "t1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
