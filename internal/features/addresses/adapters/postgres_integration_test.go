//go:build integration

package adapters

import (
	"context"
	"testing"
	"time"

	"booking-checkout/internal/core/database"
	"booking-checkout/internal/features/addresses/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *PostgresAddressRepository {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(dsn))

	pool, err := database.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewPostgresAddressRepository(pool)
}

func newAddress(label string) *domain.Address {
	return &domain.Address{UserID: "u1", Label: label, Name: "Ana", Street: "Calle 1", City: "Bogota", Country: "CO", Phone: "300"}
}

func TestAddressLifecycle(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	first := newAddress("Home")
	require.NoError(t, repo.Insert(ctx, first))
	assert.True(t, first.IsDefault)

	second := newAddress("Work")
	require.NoError(t, repo.Insert(ctx, second))
	assert.False(t, second.IsDefault)

	third := newAddress("Beach")
	require.NoError(t, repo.Insert(ctx, third))

	require.NoError(t, repo.SetDefault(ctx, "u1", third.ID))
	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	require.NoError(t, repo.Delete(ctx, "u1", third.ID))
	list, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)

	second.UserID = "u2"
	assert.ErrorIs(t, repo.Update(ctx, second), domain.ErrNotFound)
}
