package adapters

import (
	"context"
	"regexp"
	"testing"
	"time"

	"booking-checkout/internal/features/bookings/domain"
	checkout "booking-checkout/internal/features/checkout/domain"
	payments "booking-checkout/internal/features/payments/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingCols = []string{
	"id", "user_id", "service_id", "service_name", "room_type", "location", "instructions",
	"check_in", "check_out", "adults", "children", "infants", "currency", "unit_price_cents",
	"guest_first_name", "guest_last_name", "guest_email", "guest_phone", "guest_address", "guest_city", "guest_country", "special_requests",
	"address_id", "payment_method", "card_last4", "authorization_id", "payment_status", "status",
	"cancellation_fee_cents", "cancellation_policy", "refund_cents", "verification_code", "created_at", "cancelled_at",
}

func newBooking() *domain.Booking {
	draft := checkout.Draft{
		ServiceID:   "svc-1",
		ServiceName: "Casa Azul",
		CheckIn:     checkout.NewDate(2025, time.June, 1),
		CheckOut:    checkout.NewDate(2025, time.June, 4),
		Adults:      2,
		UnitPrice:   decimal.RequireFromString("100.50"),
		Currency:    "USD",
	}
	guest := checkout.GuestDetails{FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com", Phone: "300", Address: "Calle 1", City: "Bogota", Country: "CO"}
	receipt := payments.PaymentInfo{Method: payments.MethodCard, CardLast4: "4242", AuthorizationID: "AUTH-1"}
	policy := domain.Policy{Fee: decimal.RequireFromString("5"), Text: "policy"}
	return domain.NewBooking("BK-ABCDEFGH", "u1", draft, guest, "", receipt, policy, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
}

func bookingRow(b *domain.Booking, status string, refundCents int64, cancelledAt *time.Time) []any {
	return []any{
		b.ID, b.UserID, "svc-1", "Casa Azul", "", "", "",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), 2, 0, 0, "USD", int64(10050),
		"Ana", "Ruiz", "ana@example.com", "300", "Calle 1", "Bogota", "CO", "",
		"", "card", "4242", "AUTH-1", "paid", status,
		int64(500), "policy", refundCents, "123456", b.CreatedAt, cancelledAt,
	}
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *PostgresBookingRepository) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool, NewPostgresBookingRepository(pool)
}

func TestPostgresBookingRepository_Create(t *testing.T) {
	pool, repo := newMock(t)
	b := newBooking()

	args := make([]any, 34)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	args[0] = "BK-ABCDEFGH"
	args[13] = int64(10050)
	args[14] = int64(30150)
	args[23] = (*string)(nil)
	args[29] = int64(500)

	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), b))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresBookingRepository_MoneyRoundTrip(t *testing.T) {
	prices := []string{"33.34", "0.01", "100.50", "1999.99"}

	for _, price := range prices {
		t.Run(price, func(t *testing.T) {
			b := newBooking()
			b.Draft.UnitPrice = decimal.RequireFromString(price)
			require.NoError(t, b.Draft.Validate())
			charged := b.Total()

			pool, repo := newMock(t)
			row := bookingRow(b, "confirmed", 0, nil)
			row[13] = toCents(b.Draft.UnitPrice)

			pool.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1 AND user_id = $2")).
				WithArgs(b.ID, "u1").
				WillReturnRows(pgxmock.NewRows(bookingCols).AddRow(row...))

			got, err := repo.Get(context.Background(), "u1", b.ID)
			require.NoError(t, err)
			assert.True(t, charged.Equal(got.Total()), "charged %s, reloaded %s", charged, got.Total())
			assert.True(t, charged.Equal(fromCents(toCents(charged))))
		})
	}
}

func TestPostgresBookingRepository_Get(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		pool, repo := newMock(t)
		b := newBooking()

		pool.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1 AND user_id = $2")).
			WithArgs("BK-ABCDEFGH", "u1").
			WillReturnRows(pgxmock.NewRows(bookingCols).AddRow(bookingRow(b, "confirmed", 0, nil)...))

		got, err := repo.Get(context.Background(), "u1", "BK-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Draft.Nights())
		assert.Equal(t, "301.50", got.Total().StringFixed(2))
		assert.Equal(t, "5.00", got.CancellationFee.StringFixed(2))
		assert.Equal(t, domain.StatusConfirmed, got.Status)
		assert.Equal(t, payments.MethodCard, got.PaymentMethod)
		assert.Nil(t, got.CancelledAt)
		assert.Equal(t, "2025-06-04", got.Draft.CheckOut.String())
	})

	t.Run("NotFound", func(t *testing.T) {
		pool, repo := newMock(t)

		pool.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
			WithArgs("BK-MISSING0", "u1").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Get(context.Background(), "u1", "BK-MISSING0")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPostgresBookingRepository_List(t *testing.T) {
	pool, repo := newMock(t)
	b := newBooking()
	cancelled := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)

	pool.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(bookingCols).
			AddRow(bookingRow(b, "cancelled", 29650, &cancelled)...).
			AddRow(bookingRow(b, "confirmed", 0, nil)...))

	got, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.StatusCancelled, got[0].Status)
	assert.Equal(t, "296.50", got[0].Refund.StringFixed(2))
	require.NotNil(t, got[0].CancelledAt)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresBookingRepository_SaveCancellation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		pool, repo := newMock(t)
		b := newBooking()
		_, err := b.Cancel(time.Now())
		require.NoError(t, err)

		pool.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
			WithArgs("BK-ABCDEFGH", "u1", "cancelled", "refunded", int64(29650), b.CancelledAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.SaveCancellation(context.Background(), b))
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		pool, repo := newMock(t)
		b := newBooking()
		_, err := b.Cancel(time.Now())
		require.NoError(t, err)

		pool.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
			WithArgs("BK-ABCDEFGH", "u1", "cancelled", "refunded", int64(29650), b.CancelledAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.SaveCancellation(context.Background(), b), domain.ErrNotCancellable)
	})
}
