package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrationsEmbedded verifies every up migration has a matching down migration.
func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}

	for name := range names {
		if strings.HasSuffix(name, ".up.sql") {
			down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
			assert.True(t, names[down], "missing down migration for %s", name)
		}
	}
}

func TestMigrations_DefaultAddressConstraint(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000001_create_addresses.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "WHERE is_default")
}
