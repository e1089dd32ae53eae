package domain

import (
	"time"
)

// FeeBreakdown is the price section of the booking details view.
type FeeBreakdown struct {
	UnitPrice       string `json:"unit_price"`
	Nights          int    `json:"nights"`
	Subtotal        string `json:"subtotal"`
	CancellationFee string `json:"cancellation_fee"`
	Total           string `json:"total"`
	Refund          string `json:"refund,omitempty"`
	Currency        string `json:"currency"`
}

// ServiceBooked describes what was reserved.
type ServiceBooked struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	RoomType    string `json:"room_type"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	Infants     int    `json:"infants"`
}

// Contact is the guest section of the booking details view.
type Contact struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	Country         string `json:"country"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// PaymentSummary is the payment section of the booking details view.
type PaymentSummary struct {
	Method          string `json:"method"`
	CardLast4       string `json:"card_last4,omitempty"`
	AuthorizationID string `json:"authorization_id"`
	Status          string `json:"status"`
}

// Details is the fixed-shape projection rendered by the booking viewer.
type Details struct {
	BookingID          string         `json:"booking_id"`
	Status             Status         `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	CancelledAt        *time.Time     `json:"cancelled_at,omitempty"`
	Service            ServiceBooked  `json:"service"`
	Location           string         `json:"location"`
	Instructions       string         `json:"instructions"`
	Contact            Contact        `json:"contact"`
	Fees               FeeBreakdown   `json:"fees"`
	Payment            PaymentSummary `json:"payment"`
	CancellationPolicy string         `json:"cancellation_policy"`
	VerificationCode   string         `json:"verification_code"`
	Cancellable        bool           `json:"cancellable"`
}

// Details projects the booking for display.
func (b *Booking) Details() Details {
	d := b.Draft
	subtotal := b.Total()

	fees := FeeBreakdown{
		UnitPrice:       d.UnitPrice.StringFixed(2),
		Nights:          d.Nights(),
		Subtotal:        subtotal.StringFixed(2),
		CancellationFee: b.CancellationFee.StringFixed(2),
		Total:           subtotal.StringFixed(2),
		Currency:        d.Currency,
	}
	if b.Status == StatusCancelled {
		fees.Refund = b.Refund.StringFixed(2)
	}

	return Details{
		BookingID:   b.ID,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
		Service: ServiceBooked{
			ServiceID:   d.ServiceID,
			ServiceName: d.ServiceName,
			RoomType:    d.RoomType,
			CheckIn:     d.CheckIn.String(),
			CheckOut:    d.CheckOut.String(),
			Adults:      d.Adults,
			Children:    d.Children,
			Infants:     d.Infants,
		},
		Location:     d.Location,
		Instructions: d.Instructions,
		Contact: Contact{
			Name:            b.Guest.FullName(),
			Email:           b.Guest.Email,
			Phone:           b.Guest.Phone,
			Address:         b.Guest.Address,
			City:            b.Guest.City,
			Country:         b.Guest.Country,
			SpecialRequests: b.Guest.SpecialRequests,
		},
		Fees: fees,
		Payment: PaymentSummary{
			Method:          string(b.PaymentMethod),
			CardLast4:       b.CardLast4,
			AuthorizationID: b.AuthorizationID,
			Status:          string(b.PaymentStatus),
		},
		CancellationPolicy: b.CancellationPolicy,
		VerificationCode:   b.VerificationCode,
		Cancellable:        b.Status == StatusConfirmed,
	}
}

// Summary is one row of the bookings list.
type Summary struct {
	BookingID   string    `json:"booking_id"`
	ServiceName string    `json:"service_name"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Total       string    `json:"total"`
	Currency    string    `json:"currency"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summarize projects the booking for the list view.
func (b *Booking) Summarize() Summary {
	return Summary{
		BookingID:   b.ID,
		ServiceName: b.Draft.ServiceName,
		CheckIn:     b.Draft.CheckIn.String(),
		CheckOut:    b.Draft.CheckOut.String(),
		Total:       b.Total().StringFixed(2),
		Currency:    b.Draft.Currency,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
	}
}
