package adapters

import (
	"context"
	"fmt"
	"html"
	"strings"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/features/bookings/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sendgrid/rest"
	"go.uber.org/zap"
)

// MailSender delivers a prepared SendGrid message.
type MailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer implements ports.Mailer using SendGrid.
type SendGridMailer struct {
	client MailSender
	from   *mail.Email
}

// NewSendGridMailer creates a mailer sending from the given address.
func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return NewSendGridMailerWithClient(sendgrid.NewSendClient(apiKey), from)
}

// NewSendGridMailerWithClient creates a mailer around an existing sender.
func NewSendGridMailerWithClient(client MailSender, from string) *SendGridMailer {
	return &SendGridMailer{
		client: client,
		from:   mail.NewEmail("Bookings", from),
	}
}

// SendConfirmation emails the booking summary and verification code.
func (m *SendGridMailer) SendConfirmation(ctx context.Context, b *domain.Booking) error {
	subject := fmt.Sprintf("Booking %s confirmed", b.ID)
	body := confirmationBody(b)
	return m.send(ctx, b, subject, body)
}

// SendCancellation emails the cancellation outcome.
func (m *SendGridMailer) SendCancellation(ctx context.Context, b *domain.Booking, outcome domain.CancellationOutcome) error {
	subject := fmt.Sprintf("Booking %s cancelled", b.ID)
	body := outcome.Message + "\n\n" + outcome.Policy
	return m.send(ctx, b, subject, body)
}

func (m *SendGridMailer) send(_ context.Context, b *domain.Booking, subject, body string) error {
	if b.Guest.Email == "" {
		return fmt.Errorf("booking %s has no guest email", b.ID)
	}

	to := mail.NewEmail(b.Guest.FullName(), b.Guest.Email)
	message := mail.NewSingleEmail(m.from, subject, to, body, "<pre>"+html.EscapeString(body)+"</pre>")

	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", resp.StatusCode, resp.Body)
	}

	logger.Get().Info("Mail sent",
		zap.String("booking_id", b.ID),
		zap.String("subject", subject),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}

func confirmationBody(b *domain.Booking) string {
	d := b.Draft
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", b.Guest.FirstName)
	fmt.Fprintf(&sb, "Your booking %s is confirmed.\n\n", b.ID)
	fmt.Fprintf(&sb, "%s (%s)\n", d.ServiceName, d.RoomType)
	fmt.Fprintf(&sb, "Check-in:  %s\nCheck-out: %s\n", d.CheckIn.String(), d.CheckOut.String())
	fmt.Fprintf(&sb, "Total paid: %s %s\n", b.Total().StringFixed(2), d.Currency)
	fmt.Fprintf(&sb, "Verification code: %s\n\n", b.VerificationCode)
	sb.WriteString(b.CancellationPolicy)
	return sb.String()
}

// LogMailer logs instead of sending. Used when no SendGrid key is configured.
type LogMailer struct{}

// SendConfirmation logs the confirmation.
func (LogMailer) SendConfirmation(_ context.Context, b *domain.Booking) error {
	logger.Get().Info("Mail disabled, skipping confirmation", zap.String("booking_id", b.ID))
	return nil
}

// SendCancellation logs the cancellation.
func (LogMailer) SendCancellation(_ context.Context, b *domain.Booking, _ domain.CancellationOutcome) error {
	logger.Get().Info("Mail disabled, skipping cancellation", zap.String("booking_id", b.ID))
	return nil
}
