package domain

import (
	"errors"
	"fmt"
	"time"

	payments "booking-checkout/internal/features/payments/domain"
)

// Step is a checkout wizard state.
type Step string

const (
	StepAddressSelection Step = "ADDRESS_SELECTION"
	StepPaymentEntry     Step = "PAYMENT_ENTRY"
	StepConfirmed        Step = "CONFIRMED"
)

var (
	// ErrNotStarted is returned when the session has no wizard in progress.
	ErrNotStarted = errors.New("checkout has not been started")
	// ErrNoAddressSelected is returned when proceeding without an address.
	ErrNoAddressSelected = errors.New("please select an address")
	// ErrIllegalTransition is returned for moves the current step does not allow.
	ErrIllegalTransition = errors.New("illegal checkout transition")
)

// Wizard tracks one session's progress through checkout.
type Wizard struct {
	Step              Step          `json:"step"`
	SelectedAddressID string        `json:"selected_address_id,omitempty"`
	Guest             *GuestDetails `json:"guest,omitempty"`
	StartedAt         time.Time     `json:"started_at"`

	// PendingBookingID and Receipt keep an authorization whose booking was not stored.
	PendingBookingID string                `json:"pending_booking_id,omitempty"`
	Receipt          *payments.PaymentInfo `json:"receipt,omitempty"`
}

// NewWizard starts on the address step with the given preselection.
func NewWizard(selectedAddressID string, now time.Time) *Wizard {
	return &Wizard{
		Step:              StepAddressSelection,
		SelectedAddressID: selectedAddressID,
		StartedAt:         now,
	}
}

func (w *Wizard) require(step Step, action string) error {
	if w.Step != step {
		return fmt.Errorf("%w: cannot %s from %s", ErrIllegalTransition, action, w.Step)
	}
	return nil
}

// RequireAddressStep fails unless the wizard is on the address step.
func (w *Wizard) RequireAddressStep(action string) error {
	return w.require(StepAddressSelection, action)
}

// Select picks the address used for the booking.
func (w *Wizard) Select(addressID string) error {
	if err := w.require(StepAddressSelection, "select an address"); err != nil {
		return err
	}
	w.SelectedAddressID = addressID
	return nil
}

// Unselect clears the selection when it points at addressID.
func (w *Wizard) Unselect(addressID string) {
	if w.SelectedAddressID == addressID {
		w.SelectedAddressID = ""
	}
}

// Proceed moves to payment entry once an address is selected and the guest is valid.
func (w *Wizard) Proceed(guest GuestDetails) error {
	if err := w.require(StepAddressSelection, "proceed"); err != nil {
		return err
	}
	if w.SelectedAddressID == "" {
		return ErrNoAddressSelected
	}
	if err := guest.Validate(); err != nil {
		return err
	}
	w.Guest = &guest
	w.Step = StepPaymentEntry
	return nil
}

// Back returns from payment entry to the address step.
func (w *Wizard) Back() error {
	if err := w.require(StepPaymentEntry, "go back"); err != nil {
		return err
	}
	w.Step = StepAddressSelection
	return nil
}

// RequirePayment fails unless the wizard is collecting payment.
func (w *Wizard) RequirePayment() error {
	return w.require(StepPaymentEntry, "pay")
}

// Confirm marks the wizard finished.
func (w *Wizard) Confirm() error {
	if err := w.RequirePayment(); err != nil {
		return err
	}
	w.Step = StepConfirmed
	return nil
}

// KeepAuthorization records a receipt that must be reused instead of charging again.
func (w *Wizard) KeepAuthorization(bookingID string, receipt payments.PaymentInfo) {
	w.PendingBookingID = bookingID
	w.Receipt = &receipt
}

// Authorized reports the kept booking id and receipt, if any.
func (w *Wizard) Authorized() (string, *payments.PaymentInfo, bool) {
	if w.Receipt == nil || w.PendingBookingID == "" {
		return "", nil, false
	}
	return w.PendingBookingID, w.Receipt, true
}
