package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"booking-checkout/internal/core/httpclient"
	"booking-checkout/internal/core/messaging"
	"booking-checkout/internal/features/bookings/domain"
)

const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// Queues lists every queue this publisher writes to.
var Queues = []string{BookingConfirmedQueue, BookingCancelledQueue}

// BookingConfirmed is the payload of booking.confirmed.
type BookingConfirmed struct {
	BookingID       string    `json:"bookingId"`
	UserID          string    `json:"userId"`
	ServiceID       string    `json:"serviceId"`
	CheckIn         string    `json:"checkIn"`
	CheckOut        string    `json:"checkOut"`
	Total           string    `json:"total"`
	Currency        string    `json:"currency"`
	PaymentMethod   string    `json:"paymentMethod"`
	AuthorizationID string    `json:"authorizationId"`
	GuestEmail      string    `json:"guestEmail"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BookingCancelled is the payload of booking.cancelled.
type BookingCancelled struct {
	BookingID    string    `json:"bookingId"`
	UserID       string    `json:"userId"`
	RefundAmount string    `json:"refundAmount"`
	RefundIssued bool      `json:"refundIssued"`
	Currency     string    `json:"currency"`
	CancelledAt  time.Time `json:"cancelledAt"`
}

// EventPublisher implements ports.EventPublisher on top of a message publisher.
type EventPublisher struct {
	publisher messaging.Publisher
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(p messaging.Publisher) *EventPublisher {
	return &EventPublisher{publisher: p}
}

// BookingConfirmed publishes booking.confirmed.
func (p *EventPublisher) BookingConfirmed(ctx context.Context, b *domain.Booking) error {
	ev := messaging.NewEnvelope(BookingConfirmedQueue, 1, b.ID, httpclient.RayID(ctx), BookingConfirmed{
		BookingID:       b.ID,
		UserID:          b.UserID,
		ServiceID:       b.Draft.ServiceID,
		CheckIn:         b.Draft.CheckIn.String(),
		CheckOut:        b.Draft.CheckOut.String(),
		Total:           b.Total().StringFixed(2),
		Currency:        b.Draft.Currency,
		PaymentMethod:   string(b.PaymentMethod),
		AuthorizationID: b.AuthorizationID,
		GuestEmail:      b.Guest.Email,
		CreatedAt:       b.CreatedAt,
	})
	return p.publish(ctx, BookingConfirmedQueue, ev)
}

// BookingCancelled publishes booking.cancelled.
func (p *EventPublisher) BookingCancelled(ctx context.Context, b *domain.Booking, outcome domain.CancellationOutcome) error {
	var cancelledAt time.Time
	if b.CancelledAt != nil {
		cancelledAt = *b.CancelledAt
	}
	ev := messaging.NewEnvelope(BookingCancelledQueue, 1, b.ID, httpclient.RayID(ctx), BookingCancelled{
		BookingID:    b.ID,
		UserID:       b.UserID,
		RefundAmount: outcome.RefundAmount.StringFixed(2),
		RefundIssued: outcome.RefundIssued,
		Currency:     b.Draft.Currency,
		CancelledAt:  cancelledAt,
	})
	return p.publish(ctx, BookingCancelledQueue, ev)
}

func (p *EventPublisher) publish(ctx context.Context, queue string, ev any) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", queue, err)
	}
	return p.publisher.Publish(ctx, queue, body)
}
