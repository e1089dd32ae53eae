package domain

import (
	"errors"
	"time"
)

// ErrNoConfirmation is returned when there is no confirmation to show.
var ErrNoConfirmation = errors.New("no booking confirmation available")

// Confirmation is the one-shot payload read by the confirmation page.
type Confirmation struct {
	BookingID        string    `json:"booking_id"`
	VerificationCode string    `json:"verification_code"`
	ServiceName      string    `json:"service_name"`
	RoomType         string    `json:"room_type"`
	CheckIn          Date      `json:"check_in" swaggertype:"string"`
	CheckOut         Date      `json:"check_out" swaggertype:"string"`
	Nights           int       `json:"nights"`
	Total            string    `json:"total"`
	Currency         string    `json:"currency"`
	GuestName        string    `json:"guest_name"`
	GuestEmail       string    `json:"guest_email"`
	PaymentMethod    string    `json:"payment_method"`
	CardLast4        string    `json:"card_last4,omitempty"`
	BillingAddress   string    `json:"billing_address"`
	CreatedAt        time.Time `json:"created_at"`
}
