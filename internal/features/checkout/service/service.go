package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-checkout/internal/core/logger"
	addresses "booking-checkout/internal/features/addresses/domain"
	addressports "booking-checkout/internal/features/addresses/ports"
	bookings "booking-checkout/internal/features/bookings/domain"
	"booking-checkout/internal/features/checkout/domain"
	"booking-checkout/internal/features/checkout/ports"
	payments "booking-checkout/internal/features/payments/domain"

	"go.uber.org/zap"
)

// ErrPersistFailed is returned when a paid booking could not be stored.
// The wizard stays on payment entry and the draft is kept.
var ErrPersistFailed = errors.New("booking could not be saved")

// CheckoutServiceImpl implements ports.CheckoutService.
type CheckoutServiceImpl struct {
	store     ports.SessionStore
	addresses addressports.AddressBook
	payments  ports.PaymentCapturer
	bookings  ports.BookingWriter
	events    ports.EventPublisher
	mailer    ports.Mailer
	policy    bookings.Policy
	currency  string
	now       func() time.Time
}

// NewCheckoutService creates a new CheckoutServiceImpl.
// policy is snapshotted onto every booking placed.
func NewCheckoutService(
	store ports.SessionStore,
	addressBook addressports.AddressBook,
	capturer ports.PaymentCapturer,
	writer ports.BookingWriter,
	events ports.EventPublisher,
	mailer ports.Mailer,
	policy bookings.Policy,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		store:     store,
		addresses: addressBook,
		payments:  capturer,
		bookings:  writer,
		events:    events,
		mailer:    mailer,
		policy:    policy,
		currency:  domain.DefaultCurrency,
		now:       time.Now,
	}
}

// WithCurrency sets the currency applied to drafts that name none.
func (s *CheckoutServiceImpl) WithCurrency(code string) *CheckoutServiceImpl {
	if code != "" {
		s.currency = code
	}
	return s
}

// StageDraft validates and stores the booking draft, discarding any wizard in progress.
func (s *CheckoutServiceImpl) StageDraft(ctx context.Context, sessionID string, draft domain.Draft) (*domain.Draft, error) {
	if draft.Currency == "" {
		draft.Currency = s.currency
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveDraft(ctx, sessionID, &draft); err != nil {
		return nil, fmt.Errorf("service: failed to stage draft: %w", err)
	}
	if err := s.store.DeleteWizard(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("service: failed to reset checkout: %w", err)
	}
	return &draft, nil
}

// GetDraft returns the staged draft without consuming it.
func (s *CheckoutServiceImpl) GetDraft(ctx context.Context, sessionID string) (*domain.Draft, error) {
	draft, err := s.store.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, passthrough("load draft", err)
	}
	return draft, nil
}

// Start opens the wizard on the address step and preselects the default address.
func (s *CheckoutServiceImpl) Start(ctx context.Context, sessionID, userID string) (*domain.View, error) {
	draft, err := s.store.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, passthrough("load draft", err)
	}

	list, err := s.addresses.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}

	wizard := domain.NewWizard(defaultAddressID(list), s.now().UTC())
	if err := s.store.SaveWizard(ctx, sessionID, wizard); err != nil {
		return nil, fmt.Errorf("service: failed to start checkout: %w", err)
	}

	logger.Get().Info("Checkout started",
		zap.String("session_id", sessionID),
		zap.String("service_id", draft.ServiceID),
		zap.Int("addresses", len(list)),
	)

	return buildView(draft, wizard, list), nil
}

// View returns the current wizard state.
func (s *CheckoutServiceImpl) View(ctx context.Context, sessionID, userID string) (*domain.View, error) {
	draft, wizard, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, sessionID, userID, draft, wizard)
}

// SelectAddress picks one of the user's addresses for the booking.
func (s *CheckoutServiceImpl) SelectAddress(ctx context.Context, sessionID, userID, addressID string) (*domain.View, error) {
	draft, wizard, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := wizard.RequireAddressStep("select an address"); err != nil {
		return nil, err
	}

	if _, err := s.addresses.Get(ctx, userID, addressID); err != nil {
		return nil, passthrough("load address", err)
	}
	if err := wizard.Select(addressID); err != nil {
		return nil, err
	}

	if err := s.saveWizard(ctx, sessionID, wizard); err != nil {
		return nil, err
	}
	return s.render(ctx, sessionID, userID, draft, wizard)
}

// SaveAddress creates or edits an address from within checkout.
// A newly created address becomes the selected one.
func (s *CheckoutServiceImpl) SaveAddress(ctx context.Context, sessionID, userID string, address addresses.Address) (*domain.View, error) {
	draft, wizard, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := wizard.RequireAddressStep("edit addresses"); err != nil {
		return nil, err
	}

	saved, inserted, err := s.addresses.Save(ctx, userID, address)
	if err != nil {
		return nil, err
	}

	if inserted {
		if err := wizard.Select(saved.ID); err != nil {
			return nil, err
		}
		if err := s.saveWizard(ctx, sessionID, wizard); err != nil {
			return nil, err
		}
	}
	return s.render(ctx, sessionID, userID, draft, wizard)
}

// DeleteAddress removes an address and clears the selection when it pointed there.
func (s *CheckoutServiceImpl) DeleteAddress(ctx context.Context, sessionID, userID, addressID string, confirmed bool) (*domain.View, error) {
	draft, wizard, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := wizard.RequireAddressStep("edit addresses"); err != nil {
		return nil, err
	}

	if err := s.addresses.Delete(ctx, userID, addressID, confirmed); err != nil {
		return nil, err
	}

	wizard.Unselect(addressID)
	if err := s.saveWizard(ctx, sessionID, wizard); err != nil {
		return nil, err
	}
	return s.render(ctx, sessionID, userID, draft, wizard)
}

// Proceed validates the guest and moves to payment entry.
func (s *CheckoutServiceImpl) Proceed(ctx context.Context, sessionID, userID string, guest domain.GuestDetails) (*domain.View, error) {
	draft, wizard, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := wizard.RequireAddressStep("proceed"); err != nil {
		return nil, err
	}

	if _, err := s.verifySelection(ctx, sessionID, userID, wizard); err != nil {
		return nil, err
	}
	if err := wizard.Proceed(guest); err != nil {
		return nil, err
	}

	if err := s.saveWizard(ctx, sessionID, wizard); err != nil {
		return nil, err
	}
	return s.render(ctx, sessionID, userID, draft, wizard)
}

// Back returns from payment entry to the address step.
func (s *CheckoutServiceImpl) Back(ctx context.Context, sessionID, userID string) (*domain.View, error) {
	draft, wizard, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := wizard.Back(); err != nil {
		return nil, err
	}
	if err := s.saveWizard(ctx, sessionID, wizard); err != nil {
		return nil, err
	}
	return s.render(ctx, sessionID, userID, draft, wizard)
}

// PlaceOrder captures the payment and stores the booking.
// The session's payment guard is held until the draft and wizard are cleared, so a second submission
// fails with ErrPaymentInProgress instead of charging again. Storage failure is fatal for the step;
// the authorization is kept on the wizard and reused by the next attempt.
func (s *CheckoutServiceImpl) PlaceOrder(ctx context.Context, sessionID, userID string, req payments.PaymentRequest) (*domain.Placement, error) {
	release, err := s.payments.Hold(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	draft, wizard, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := wizard.RequirePayment(); err != nil {
		return nil, err
	}
	if wizard.Guest == nil {
		return nil, fmt.Errorf("%w: guest details missing", domain.ErrIllegalTransition)
	}
	address, err := s.verifySelection(ctx, sessionID, userID, wizard)
	if err != nil {
		return nil, err
	}

	bookingID, receipt, reused := wizard.Authorized()
	if !reused {
		bookingID = bookings.NewBookingID()
		receipt, err = s.payments.Authorize(ctx, req, payments.Charge{
			Amount:    draft.Total(),
			Currency:  draft.Currency,
			Reference: bookingID,
		})
		if err != nil {
			return nil, err
		}
	}

	booking := bookings.NewBooking(bookingID, userID, *draft, *wizard.Guest, wizard.SelectedAddressID, *receipt, s.policy, s.now())

	log := logger.Get().With(
		zap.String("session_id", sessionID),
		zap.String("booking_id", booking.ID),
	)

	if reused {
		log.Info("Reusing kept authorization", zap.String("authorization_id", receipt.AuthorizationID))
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		log.Error("Failed to persist paid booking",
			zap.String("authorization_id", receipt.AuthorizationID),
			zap.Error(err),
		)
		wizard.KeepAuthorization(bookingID, *receipt)
		if saveErr := s.store.SaveWizard(ctx, sessionID, wizard); saveErr != nil {
			log.Error("Failed to keep authorization for retry",
				zap.String("authorization_id", receipt.AuthorizationID),
				zap.Error(saveErr),
			)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	if err := wizard.Confirm(); err != nil {
		return nil, err
	}

	if err := s.store.SaveConfirmation(ctx, sessionID, confirmationOf(booking, address)); err != nil {
		log.Warn("Failed to store confirmation", zap.Error(err))
	}
	if err := s.store.DeleteDraft(ctx, sessionID); err != nil {
		log.Warn("Failed to clear draft", zap.Error(err))
	}
	if err := s.store.DeleteWizard(ctx, sessionID); err != nil {
		log.Warn("Failed to clear checkout", zap.Error(err))
	}
	release()

	if err := s.events.BookingConfirmed(ctx, booking); err != nil {
		log.Warn("Failed to publish booking confirmation", zap.Error(err))
	}
	if err := s.mailer.SendConfirmation(ctx, booking); err != nil {
		log.Warn("Failed to send confirmation email", zap.Error(err))
	}

	log.Info("Booking placed", zap.String("total", booking.Total().StringFixed(2)))

	return &domain.Placement{
		BookingID:        booking.ID,
		VerificationCode: booking.VerificationCode,
		Redirect:         domain.ConfirmationPath(booking.ID),
	}, nil
}

// Confirmation returns the last placed booking once.
func (s *CheckoutServiceImpl) Confirmation(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	confirmation, err := s.store.TakeConfirmation(ctx, sessionID)
	if err != nil {
		return nil, passthrough("load confirmation", err)
	}
	return confirmation, nil
}

// load returns the staged draft and the wizard. A missing draft wins over a missing wizard.
func (s *CheckoutServiceImpl) load(ctx context.Context, sessionID string) (*domain.Draft, *domain.Wizard, error) {
	draft, err := s.store.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, nil, passthrough("load draft", err)
	}
	wizard, err := s.store.GetWizard(ctx, sessionID)
	if err != nil {
		return nil, nil, passthrough("load checkout", err)
	}
	return draft, wizard, nil
}

func (s *CheckoutServiceImpl) saveWizard(ctx context.Context, sessionID string, wizard *domain.Wizard) error {
	if err := s.store.SaveWizard(ctx, sessionID, wizard); err != nil {
		return fmt.Errorf("service: failed to save checkout: %w", err)
	}
	return nil
}

// verifySelection returns the selected address, dropping a selection whose address no longer exists.
func (s *CheckoutServiceImpl) verifySelection(ctx context.Context, sessionID, userID string, wizard *domain.Wizard) (*addresses.Address, error) {
	if wizard.SelectedAddressID == "" {
		return nil, domain.ErrNoAddressSelected
	}

	address, err := s.addresses.Get(ctx, userID, wizard.SelectedAddressID)
	if err == nil {
		return address, nil
	}
	if !errors.Is(err, addresses.ErrNotFound) {
		return nil, fmt.Errorf("service: failed to load address: %w", err)
	}

	wizard.Unselect(wizard.SelectedAddressID)
	wizard.Step = domain.StepAddressSelection
	if err := s.saveWizard(ctx, sessionID, wizard); err != nil {
		return nil, err
	}
	return nil, domain.ErrNoAddressSelected
}

func (s *CheckoutServiceImpl) render(ctx context.Context, sessionID, userID string, draft *domain.Draft, wizard *domain.Wizard) (*domain.View, error) {
	list, err := s.addresses.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}

	if wizard.SelectedAddressID != "" && !containsAddress(list, wizard.SelectedAddressID) {
		wizard.Unselect(wizard.SelectedAddressID)
		if err := s.saveWizard(ctx, sessionID, wizard); err != nil {
			return nil, err
		}
	}
	return buildView(draft, wizard, list), nil
}

func buildView(draft *domain.Draft, wizard *domain.Wizard, list []addresses.Address) *domain.View {
	if list == nil {
		list = []addresses.Address{}
	}
	return &domain.View{
		Step:              wizard.Step,
		Draft:             *draft,
		Nights:            draft.Nights(),
		Addresses:         list,
		SelectedAddressID: wizard.SelectedAddressID,
		ShowAddressForm:   len(list) == 0,
		Guest:             wizard.Guest,
	}
}

func confirmationOf(b *bookings.Booking, address *addresses.Address) *domain.Confirmation {
	return &domain.Confirmation{
		BookingID:        b.ID,
		VerificationCode: b.VerificationCode,
		ServiceName:      b.Draft.ServiceName,
		RoomType:         b.Draft.RoomType,
		CheckIn:          b.Draft.CheckIn,
		CheckOut:         b.Draft.CheckOut,
		Nights:           b.Draft.Nights(),
		Total:            b.Total().StringFixed(2),
		Currency:         b.Draft.Currency,
		GuestName:        b.Guest.FullName(),
		GuestEmail:       b.Guest.Email,
		PaymentMethod:    string(b.PaymentMethod),
		CardLast4:        b.CardLast4,
		BillingAddress:   address.OneLine(),
		CreatedAt:        b.CreatedAt,
	}
}

// defaultAddressID returns the default address, or the first one when none is flagged.
func defaultAddressID(list []addresses.Address) string {
	for _, a := range list {
		if a.IsDefault {
			return a.ID
		}
	}
	if len(list) > 0 {
		return list[0].ID
	}
	return ""
}

func containsAddress(list []addresses.Address, id string) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}

// passthrough keeps domain sentinels unwrapped and wraps everything else.
func passthrough(action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoDraft),
		errors.Is(err, domain.ErrNotStarted),
		errors.Is(err, domain.ErrNoConfirmation),
		errors.Is(err, addresses.ErrNotFound):
		return err
	}
	return fmt.Errorf("service: failed to %s: %w", action, err)
}
