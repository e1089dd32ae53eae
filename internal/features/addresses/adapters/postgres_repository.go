package adapters

import (
	"context"
	"errors"
	"fmt"

	"booking-checkout/internal/core/database"
	"booking-checkout/internal/features/addresses/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const addressColumns = `id::text, user_id, label, name, street, city, state, zip, country, phone, is_default, created_at, updated_at`

// PostgresAddressRepository implements ports.AddressRepository on PostgreSQL.
type PostgresAddressRepository struct {
	pool database.DBPool
}

// NewPostgresAddressRepository creates a new PostgresAddressRepository.
func NewPostgresAddressRepository(pool database.DBPool) *PostgresAddressRepository {
	return &PostgresAddressRepository{pool: pool}
}

func scanAddress(row pgx.Row, a *domain.Address) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.Label, &a.Name, &a.Street, &a.City, &a.State,
		&a.Zip, &a.Country, &a.Phone, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
}

// List returns the user's addresses, default first then oldest first.
func (r *PostgresAddressRepository) List(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		var a domain.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate addresses: %w", err)
	}
	return addresses, nil
}

// Get returns one of the user's addresses.
func (r *PostgresAddressRepository) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	var a domain.Address
	row := r.pool.QueryRow(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1 AND id = $2
	`, userID, id)
	if err := scanAddress(row, &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return &a, nil
}

// Insert stores a new address. The default flag is decided in the same statement
// so a user's first address is always the default one.
func (r *PostgresAddressRepository) Insert(ctx context.Context, a *domain.Address) error {
	a.ID = uuid.NewString()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO addresses (id, user_id, label, name, street, city, state, zip, country, phone, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			NOT EXISTS (SELECT 1 FROM addresses WHERE user_id = $2))
		RETURNING is_default, created_at, updated_at
	`, a.ID, a.UserID, a.Label, a.Name, a.Street, a.City, a.State, a.Zip, a.Country, a.Phone,
	).Scan(&a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of an existing address.
func (r *PostgresAddressRepository) Update(ctx context.Context, a *domain.Address) error {
	if _, err := uuid.Parse(a.ID); err != nil {
		return domain.ErrNotFound
	}

	err := r.pool.QueryRow(ctx, `
		UPDATE addresses
		SET label = $3, name = $4, street = $5, city = $6, state = $7, zip = $8,
			country = $9, phone = $10, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING is_default, created_at, updated_at
	`, a.ID, a.UserID, a.Label, a.Name, a.Street, a.City, a.State, a.Zip, a.Country, a.Phone,
	).Scan(&a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to update address: %w", err)
	}
	return nil
}

// Delete removes the address. When it was the default, the oldest remaining
// address takes over inside the same transaction.
func (r *PostgresAddressRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var wasDefault bool
	err = tx.QueryRow(ctx, `
		DELETE FROM addresses
		WHERE id = $1 AND user_id = $2
		RETURNING is_default
	`, id, userID).Scan(&wasDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to delete address: %w", err)
	}

	if wasDefault {
		_, err = tx.Exec(ctx, `
			UPDATE addresses
			SET is_default = TRUE, updated_at = now()
			WHERE id = (
				SELECT id FROM addresses
				WHERE user_id = $1
				ORDER BY created_at ASC
				LIMIT 1
			)
		`, userID)
		if err != nil {
			return fmt.Errorf("failed to promote default address: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit address delete: %w", err)
	}
	return nil
}

// SetDefault moves the default flag to id.
func (r *PostgresAddressRepository) SetDefault(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Clear first: the partial unique index allows one default per user.
	if _, err := tx.Exec(ctx, `
		UPDATE addresses
		SET is_default = FALSE, updated_at = now()
		WHERE user_id = $1 AND is_default AND id <> $2
	`, userID, id); err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE addresses
		SET is_default = TRUE, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit default address: %w", err)
	}
	return nil
}
