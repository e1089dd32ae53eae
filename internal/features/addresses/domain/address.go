package domain

import (
	"errors"
	"strings"
	"time"

	"booking-checkout/internal/core/validation"
)

var (
	// ErrNotFound is returned when the address does not exist for the user.
	ErrNotFound = errors.New("address not found")
	// ErrConfirmationRequired is returned when a delete was not confirmed.
	ErrConfirmationRequired = errors.New("address deletion requires confirmation")
)

// Address is a saved shipping/billing address.
// A user has at most one default address, and has one whenever any address exists.
type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Label     string    `json:"label"`
	Name      string    `json:"name"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Country   string    `json:"country"`
	Phone     string    `json:"phone"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize trims surrounding whitespace from every text field.
func (a *Address) Normalize() {
	for _, f := range []*string{&a.Label, &a.Name, &a.Street, &a.City, &a.State, &a.Zip, &a.Country, &a.Phone} {
		*f = strings.TrimSpace(*f)
	}
}

// Validate reports every missing required field.
func (a Address) Validate() error {
	errs := validation.FieldErrors{}
	errs.Required("name", a.Name, "Name is required")
	errs.Required("street", a.Street, "Street is required")
	errs.Required("city", a.City, "City is required")
	errs.Required("country", a.Country, "Country is required")
	errs.Required("phone", a.Phone, "Phone is required")
	return errs.Err()
}

// OneLine renders the address for summaries and receipts.
func (a Address) OneLine() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.Zip, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
