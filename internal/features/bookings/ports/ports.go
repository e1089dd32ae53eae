package ports

import (
	"context"

	"booking-checkout/internal/features/bookings/domain"
)

// BookingService defines the primary port for the booking viewer.
type BookingService interface {
	Get(ctx context.Context, userID, id string) (*domain.Details, error)
	List(ctx context.Context, userID string) ([]domain.Summary, error)
	PreviewCancellation(ctx context.Context, userID, id string) (*domain.CancellationOutcome, error)
	Cancel(ctx context.Context, userID, id string) (*domain.CancellationOutcome, error)
	QRCode(ctx context.Context, userID, id string) ([]byte, error)
	ExportPDF(ctx context.Context, userID, id string) ([]byte, error)
	ShareLink(ctx context.Context, userID, id string) (string, error)
}

// BookingRepository defines the secondary port for booking storage.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Get(ctx context.Context, userID, id string) (*domain.Booking, error)
	// List returns the user's bookings, newest first.
	List(ctx context.Context, userID string) ([]*domain.Booking, error)
	// SaveCancellation persists a cancellation. It fails with ErrNotCancellable
	// when the stored booking is no longer confirmed.
	SaveCancellation(ctx context.Context, b *domain.Booking) error
}

// EventPublisher announces booking lifecycle changes.
type EventPublisher interface {
	BookingConfirmed(ctx context.Context, b *domain.Booking) error
	BookingCancelled(ctx context.Context, b *domain.Booking, outcome domain.CancellationOutcome) error
}

// Mailer notifies the guest.
type Mailer interface {
	SendConfirmation(ctx context.Context, b *domain.Booking) error
	SendCancellation(ctx context.Context, b *domain.Booking, outcome domain.CancellationOutcome) error
}

// DocumentRenderer turns booking details into a printable document.
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, details domain.Details) ([]byte, error)
}

// QREncoder renders content as a PNG QR code.
type QREncoder interface {
	Encode(content string, size int) ([]byte, error)
}
