package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/features/bookings/domain"
	"booking-checkout/internal/features/bookings/ports"

	"go.uber.org/zap"
)

const defaultQRSize = 256

// Options tunes the booking viewer.
type Options struct {
	// PublicBaseURL prefixes share links.
	PublicBaseURL string
	// CancellationLatency simulates processor time before a cancellation is recorded.
	CancellationLatency time.Duration
	// QRSize is the edge length of the QR PNG in pixels.
	QRSize int
}

// BookingServiceImpl implements ports.BookingService.
type BookingServiceImpl struct {
	repo     ports.BookingRepository
	events   ports.EventPublisher
	mailer   ports.Mailer
	renderer ports.DocumentRenderer
	qr       ports.QREncoder
	opts     Options
	now      func() time.Time
}

// NewBookingService creates a new BookingServiceImpl.
func NewBookingService(
	repo ports.BookingRepository,
	events ports.EventPublisher,
	mailer ports.Mailer,
	renderer ports.DocumentRenderer,
	qr ports.QREncoder,
	opts Options,
) *BookingServiceImpl {
	if opts.QRSize <= 0 {
		opts.QRSize = defaultQRSize
	}
	return &BookingServiceImpl{
		repo:     repo,
		events:   events,
		mailer:   mailer,
		renderer: renderer,
		qr:       qr,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *BookingServiceImpl) load(ctx context.Context, userID, id string) (*domain.Booking, error) {
	b, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service: failed to load booking: %w", err)
	}
	return b, nil
}

// Get returns the details projection of a booking.
func (s *BookingServiceImpl) Get(ctx context.Context, userID, id string) (*domain.Details, error) {
	b, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	details := b.Details()
	return &details, nil
}

// List returns the user's bookings, newest first.
func (s *BookingServiceImpl) List(ctx context.Context, userID string) ([]domain.Summary, error) {
	bookings, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bookings: %w", err)
	}

	out := make([]domain.Summary, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.Summarize())
	}
	return out, nil
}

// PreviewCancellation shows what cancelling would refund.
func (s *BookingServiceImpl) PreviewCancellation(ctx context.Context, userID, id string) (*domain.CancellationOutcome, error) {
	b, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.StatusConfirmed {
		return nil, domain.ErrNotCancellable
	}
	outcome := b.PreviewCancellation()
	return &outcome, nil
}

// Cancel cancels a confirmed booking. There is no undo.
func (s *BookingServiceImpl) Cancel(ctx context.Context, userID, id string) (*domain.CancellationOutcome, error) {
	b, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.StatusConfirmed {
		return nil, domain.ErrNotCancellable
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	outcome, err := b.Cancel(s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveCancellation(ctx, b); err != nil {
		if errors.Is(err, domain.ErrNotCancellable) {
			return nil, err
		}
		return nil, fmt.Errorf("service: failed to save cancellation: %w", err)
	}

	log := logger.Get().With(zap.String("booking_id", b.ID))
	log.Info("Booking cancelled",
		zap.String("refund", outcome.RefundAmount.StringFixed(2)),
		zap.Bool("refund_issued", outcome.RefundIssued),
	)

	if err := s.events.BookingCancelled(ctx, b, outcome); err != nil {
		log.Warn("Failed to publish booking cancellation", zap.Error(err))
	}
	if err := s.mailer.SendCancellation(ctx, b, outcome); err != nil {
		log.Warn("Failed to send cancellation email", zap.Error(err))
	}

	return &outcome, nil
}

func (s *BookingServiceImpl) wait(ctx context.Context) error {
	if s.opts.CancellationLatency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.opts.CancellationLatency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// QRCode renders the booking's verification payload as a PNG.
func (s *BookingServiceImpl) QRCode(ctx context.Context, userID, id string) ([]byte, error) {
	b, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.Encode(b.ID+":"+b.VerificationCode, s.opts.QRSize)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	return png, nil
}

// ExportPDF prints the booking details.
func (s *BookingServiceImpl) ExportPDF(ctx context.Context, userID, id string) ([]byte, error) {
	b, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderPDF(ctx, b.Details())
	if err != nil {
		return nil, fmt.Errorf("service: failed to export booking: %w", err)
	}
	return pdf, nil
}

// ShareLink returns the public URL of the booking page.
func (s *BookingServiceImpl) ShareLink(ctx context.Context, userID, id string) (string, error) {
	b, err := s.load(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/bookings/" + b.ID, nil
}
