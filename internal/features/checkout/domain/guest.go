package domain

import (
	"regexp"
	"strings"

	"booking-checkout/internal/core/validation"
)

var emailFormat = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// GuestDetails identifies who is staying.
type GuestDetails struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	Country         string `json:"country"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// FullName joins first and last name.
func (g GuestDetails) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// Validate reports every failing field. Special requests are optional.
func (g GuestDetails) Validate() error {
	errs := validation.FieldErrors{}
	errs.Required("first_name", g.FirstName, "First name is required")
	errs.Required("last_name", g.LastName, "Last name is required")
	errs.Required("email", g.Email, "Email is required")
	if _, failed := errs["email"]; !failed && !emailFormat.MatchString(strings.TrimSpace(g.Email)) {
		errs.Add("email", "Please enter a valid email address")
	}
	errs.Required("phone", g.Phone, "Phone is required")
	errs.Required("address", g.Address, "Address is required")
	errs.Required("city", g.City, "City is required")
	errs.Required("country", g.Country, "Country is required")
	return errs.Err()
}
