package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-checkout/internal/core/database"
	"booking-checkout/internal/features/bookings/domain"
	checkout "booking-checkout/internal/features/checkout/domain"
	payments "booking-checkout/internal/features/payments/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const bookingColumns = `id, user_id, service_id, service_name, room_type, location, instructions,
	check_in, check_out, adults, children, infants, currency, unit_price_cents,
	guest_first_name, guest_last_name, guest_email, guest_phone, guest_address, guest_city, guest_country, special_requests,
	COALESCE(address_id::text, ''), payment_method, card_last4, authorization_id, payment_status, status,
	cancellation_fee_cents, cancellation_policy, refund_cents, verification_code, created_at, cancelled_at`

// PostgresBookingRepository implements ports.BookingRepository on PostgreSQL.
// Money is stored as integer cents.
type PostgresBookingRepository struct {
	pool database.DBPool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository.
func NewPostgresBookingRepository(pool database.DBPool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts a new booking.
func (r *PostgresBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	d, g := b.Draft, b.Guest

	_, err := r.pool.Exec(ctx, `
		INSERT INTO bookings (
			id, user_id, service_id, service_name, room_type, location, instructions,
			check_in, check_out, adults, children, infants, currency, unit_price_cents, total_cents,
			guest_first_name, guest_last_name, guest_email, guest_phone, guest_address, guest_city, guest_country, special_requests,
			address_id, payment_method, card_last4, authorization_id, payment_status, status,
			cancellation_fee_cents, cancellation_policy, refund_cents, verification_code, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23,
			$24, $25, $26, $27, $28, $29,
			$30, $31, $32, $33, $34
		)`,
		b.ID, b.UserID, d.ServiceID, d.ServiceName, d.RoomType, d.Location, d.Instructions,
		d.CheckIn.Time, d.CheckOut.Time, d.Adults, d.Children, d.Infants, d.Currency, toCents(d.UnitPrice), toCents(b.Total()),
		g.FirstName, g.LastName, g.Email, g.Phone, g.Address, g.City, g.Country, g.SpecialRequests,
		nullable(b.AddressID), string(b.PaymentMethod), b.CardLast4, b.AuthorizationID, string(b.PaymentStatus), string(b.Status),
		toCents(b.CancellationFee), b.CancellationPolicy, toCents(b.Refund), b.VerificationCode, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// Get returns one of the user's bookings.
func (r *PostgresBookingRepository) Get(ctx context.Context, userID, id string) (*domain.Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND user_id = $2`, id, userID)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// List returns the user's bookings, newest first.
func (r *PostgresBookingRepository) List(ctx context.Context, userID string) ([]*domain.Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// SaveCancellation persists the cancellation only if the row is still confirmed.
func (r *PostgresBookingRepository) SaveCancellation(ctx context.Context, b *domain.Booking) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET status = $3, payment_status = $4, refund_cents = $5, cancelled_at = $6
		WHERE id = $1 AND user_id = $2 AND status = 'confirmed'
	`, b.ID, b.UserID, string(b.Status), string(b.PaymentStatus), toCents(b.Refund), b.CancelledAt)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotCancellable
	}
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b                         domain.Booking
		checkIn, checkOut         time.Time
		unitPrice, fee, refund    int64
		method, payStatus, status string
	)
	d, g := &b.Draft, &b.Guest

	err := row.Scan(
		&b.ID, &b.UserID, &d.ServiceID, &d.ServiceName, &d.RoomType, &d.Location, &d.Instructions,
		&checkIn, &checkOut, &d.Adults, &d.Children, &d.Infants, &d.Currency, &unitPrice,
		&g.FirstName, &g.LastName, &g.Email, &g.Phone, &g.Address, &g.City, &g.Country, &g.SpecialRequests,
		&b.AddressID, &method, &b.CardLast4, &b.AuthorizationID, &payStatus, &status,
		&fee, &b.CancellationPolicy, &refund, &b.VerificationCode, &b.CreatedAt, &b.CancelledAt,
	)
	if err != nil {
		return nil, err
	}

	d.CheckIn = checkout.NewDate(checkIn.Year(), checkIn.Month(), checkIn.Day())
	d.CheckOut = checkout.NewDate(checkOut.Year(), checkOut.Month(), checkOut.Day())
	d.UnitPrice = fromCents(unitPrice)
	d.TotalPrice = d.Total()
	b.PaymentMethod = payments.Method(method)
	b.PaymentStatus = domain.PaymentStatus(payStatus)
	b.Status = domain.Status(status)
	b.CancellationFee = fromCents(fee)
	b.Refund = fromCents(refund)

	return &b, nil
}
