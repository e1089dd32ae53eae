package domain

import (
	"errors"
	"strings"

	"booking-checkout/internal/core/validation"

	"github.com/shopspring/decimal"
)

// ErrNoDraft is returned when the session has no staged booking.
var ErrNoDraft = errors.New("no booking draft staged for this session")

// DefaultCurrency applies when a draft names none.
const DefaultCurrency = "USD"

// Draft is a prospective reservation staged before checkout.
// TotalPrice is always derived from UnitPrice and the stay length.
type Draft struct {
	ServiceID    string          `json:"service_id"`
	ServiceName  string          `json:"service_name"`
	RoomType     string          `json:"room_type"`
	Location     string          `json:"location,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	CheckIn      Date            `json:"check_in" swaggertype:"string" example:"2025-06-01"`
	CheckOut     Date            `json:"check_out" swaggertype:"string" example:"2025-06-04"`
	Adults       int             `json:"adults"`
	Children     int             `json:"children"`
	Infants      int             `json:"infants"`
	UnitPrice    decimal.Decimal `json:"unit_price" swaggertype:"string" example:"100.00"`
	Currency     string          `json:"currency"`
	TotalPrice   decimal.Decimal `json:"total_price" swaggertype:"string" example:"300.00"`
}

// Nights is the number of days between check-in and check-out.
func (d Draft) Nights() int {
	if d.CheckIn.IsZero() || d.CheckOut.IsZero() {
		return 0
	}
	return d.CheckIn.DaysUntil(d.CheckOut)
}

// Total is the unit price times the number of nights.
func (d Draft) Total() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Nights())))
}

// Validate reports every invalid field.
func (d Draft) Validate() error {
	errs := validation.FieldErrors{}
	errs.Required("service_id", d.ServiceID, "Service is required")
	errs.Required("service_name", d.ServiceName, "Service name is required")
	if d.CheckIn.IsZero() {
		errs.Add("check_in", "Check-in date is required")
	}
	if d.CheckOut.IsZero() {
		errs.Add("check_out", "Check-out date is required")
	} else if d.Nights() <= 0 {
		errs.Add("check_out", "Check-out must be after check-in")
	}
	if d.Adults < 1 {
		errs.Add("adults", "At least one adult is required")
	}
	if d.Children < 0 {
		errs.Add("children", "Children cannot be negative")
	}
	if d.Infants < 0 {
		errs.Add("infants", "Infants cannot be negative")
	}
	if d.UnitPrice.IsNegative() {
		errs.Add("unit_price", "Price cannot be negative")
	} else if !d.UnitPrice.Equal(d.UnitPrice.Round(2)) {
		errs.Add("unit_price", "Price cannot have more than two decimal places")
	}
	return errs.Err()
}

// Normalize trims text fields, defaults the currency, and recomputes the total.
func (d *Draft) Normalize() {
	d.ServiceID = strings.TrimSpace(d.ServiceID)
	d.ServiceName = strings.TrimSpace(d.ServiceName)
	d.RoomType = strings.TrimSpace(d.RoomType)
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	d.TotalPrice = d.Total()
}
