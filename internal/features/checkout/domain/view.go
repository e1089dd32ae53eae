package domain

import (
	addresses "booking-checkout/internal/features/addresses/domain"
)

// View is what the checkout screen renders for the current step.
type View struct {
	Step              Step                `json:"step"`
	Draft             Draft               `json:"draft"`
	Nights            int                 `json:"nights"`
	Addresses         []addresses.Address `json:"addresses"`
	SelectedAddressID string              `json:"selected_address_id,omitempty"`
	// ShowAddressForm asks the client to open the address form because the user has none saved.
	ShowAddressForm bool          `json:"show_address_form"`
	Guest           *GuestDetails `json:"guest,omitempty"`
}

// Placement is returned once an order is placed.
type Placement struct {
	BookingID        string `json:"booking_id"`
	VerificationCode string `json:"verification_code"`
	Redirect         string `json:"redirect"`
}

// ConfirmationPath is the client route showing a placed booking.
func ConfirmationPath(bookingID string) string {
	return "/booking-confirmation/" + bookingID
}
