package ports

import (
	"context"

	addresses "booking-checkout/internal/features/addresses/domain"
	bookings "booking-checkout/internal/features/bookings/domain"
	"booking-checkout/internal/features/checkout/domain"
	payments "booking-checkout/internal/features/payments/domain"
)

// CheckoutService defines the primary port for the checkout wizard.
type CheckoutService interface {
	StageDraft(ctx context.Context, sessionID string, draft domain.Draft) (*domain.Draft, error)
	GetDraft(ctx context.Context, sessionID string) (*domain.Draft, error)
	Start(ctx context.Context, sessionID, userID string) (*domain.View, error)
	View(ctx context.Context, sessionID, userID string) (*domain.View, error)
	SelectAddress(ctx context.Context, sessionID, userID, addressID string) (*domain.View, error)
	SaveAddress(ctx context.Context, sessionID, userID string, address addresses.Address) (*domain.View, error)
	DeleteAddress(ctx context.Context, sessionID, userID, addressID string, confirmed bool) (*domain.View, error)
	Proceed(ctx context.Context, sessionID, userID string, guest domain.GuestDetails) (*domain.View, error)
	Back(ctx context.Context, sessionID, userID string) (*domain.View, error)
	PlaceOrder(ctx context.Context, sessionID, userID string, req payments.PaymentRequest) (*domain.Placement, error)
	// Confirmation returns the last placed booking once and forgets it.
	Confirmation(ctx context.Context, sessionID string) (*domain.Confirmation, error)
}

// SessionStore keeps the session-scoped checkout state.
type SessionStore interface {
	// GetDraft returns ErrNoDraft when nothing is staged.
	GetDraft(ctx context.Context, sessionID string) (*domain.Draft, error)
	SaveDraft(ctx context.Context, sessionID string, draft *domain.Draft) error
	DeleteDraft(ctx context.Context, sessionID string) error

	// GetWizard returns ErrNotStarted when checkout was never started.
	GetWizard(ctx context.Context, sessionID string) (*domain.Wizard, error)
	SaveWizard(ctx context.Context, sessionID string, wizard *domain.Wizard) error
	DeleteWizard(ctx context.Context, sessionID string) error

	SaveConfirmation(ctx context.Context, sessionID string, confirmation *domain.Confirmation) error
	// TakeConfirmation returns ErrNoConfirmation when there is none.
	TakeConfirmation(ctx context.Context, sessionID string) (*domain.Confirmation, error)
}

// PaymentCapturer authorizes the booking charge.
type PaymentCapturer interface {
	// Hold marks the session's payment in flight until release is called.
	Hold(ctx context.Context, sessionID string) (release func(), err error)
	Authorize(ctx context.Context, req payments.PaymentRequest, charge payments.Charge) (*payments.PaymentInfo, error)
}

// BookingWriter persists placed bookings.
type BookingWriter interface {
	Create(ctx context.Context, b *bookings.Booking) error
}

// EventPublisher announces placed bookings.
type EventPublisher interface {
	BookingConfirmed(ctx context.Context, b *bookings.Booking) error
}

// Mailer sends the booking confirmation.
type Mailer interface {
	SendConfirmation(ctx context.Context, b *bookings.Booking) error
}
