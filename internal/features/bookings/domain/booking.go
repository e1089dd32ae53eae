package domain

import (
	"errors"
	"time"

	checkout "booking-checkout/internal/features/checkout/domain"
	payments "booking-checkout/internal/features/payments/domain"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus tracks the money side of a booking.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var (
	// ErrNotFound is returned when the booking does not exist for the user.
	ErrNotFound = errors.New("booking not found")
	// ErrNotCancellable is returned when the booking is no longer confirmed.
	ErrNotCancellable = errors.New("booking cannot be cancelled")
)

// Policy is the cancellation terms snapshotted onto every booking.
type Policy struct {
	Fee  decimal.Decimal
	Text string
}

// Booking is the persisted record created by a successful checkout.
type Booking struct {
	ID                 string                `json:"id"`
	UserID             string                `json:"user_id"`
	Draft              checkout.Draft        `json:"draft"`
	Guest              checkout.GuestDetails `json:"guest"`
	AddressID          string                `json:"address_id,omitempty"`
	PaymentMethod      payments.Method       `json:"payment_method"`
	CardLast4          string                `json:"card_last4,omitempty"`
	AuthorizationID    string                `json:"authorization_id"`
	PaymentStatus      PaymentStatus         `json:"payment_status"`
	Status             Status                `json:"status"`
	CancellationFee    decimal.Decimal       `json:"cancellation_fee" swaggertype:"string"`
	CancellationPolicy string                `json:"cancellation_policy"`
	Refund             decimal.Decimal       `json:"refund" swaggertype:"string"`
	VerificationCode   string                `json:"verification_code"`
	CreatedAt          time.Time             `json:"created_at"`
	CancelledAt        *time.Time            `json:"cancelled_at,omitempty"`
}

// NewBooking assembles a confirmed, paid booking.
// The draft total is recomputed so the record never trusts a stale value.
func NewBooking(id, userID string, draft checkout.Draft, guest checkout.GuestDetails, addressID string, receipt payments.PaymentInfo, policy Policy, now time.Time) *Booking {
	draft.TotalPrice = draft.Total()
	return &Booking{
		ID:                 id,
		UserID:             userID,
		Draft:              draft,
		Guest:              guest,
		AddressID:          addressID,
		PaymentMethod:      receipt.Method,
		CardLast4:          receipt.CardLast4,
		AuthorizationID:    receipt.AuthorizationID,
		PaymentStatus:      PaymentPaid,
		Status:             StatusConfirmed,
		CancellationFee:    policy.Fee,
		CancellationPolicy: policy.Text,
		Refund:             decimal.Zero,
		VerificationCode:   NewVerificationCode(),
		CreatedAt:          now.UTC(),
	}
}

// Total is the amount charged for the stay.
func (b *Booking) Total() decimal.Decimal {
	return b.Draft.Total()
}

// Cancel moves a confirmed booking to cancelled and records the refund.
func (b *Booking) Cancel(now time.Time) (CancellationOutcome, error) {
	if b.Status != StatusConfirmed {
		return CancellationOutcome{}, ErrNotCancellable
	}

	outcome := b.PreviewCancellation()
	cancelledAt := now.UTC()

	b.Status = StatusCancelled
	b.Refund = outcome.RefundAmount
	b.CancelledAt = &cancelledAt
	if outcome.RefundIssued {
		b.PaymentStatus = PaymentRefunded
	}
	return outcome, nil
}

// PreviewCancellation computes the outcome without changing the booking.
func (b *Booking) PreviewCancellation() CancellationOutcome {
	return ComputeCancellation(b.Total(), b.CancellationFee, b.Draft.Currency, b.CancellationPolicy)
}
