package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/features/payments/domain"
	"booking-checkout/internal/features/payments/ports"

	"go.uber.org/zap"
)

var (
	// ErrPaymentInProgress is returned when the session already has a payment processing.
	ErrPaymentInProgress = errors.New("payment already in progress")
	// ErrPaymentTimeout is returned when the gateway did not answer in time.
	ErrPaymentTimeout = errors.New("payment authorization timed out")
)

// PaymentService captures payments through a gateway.
type PaymentService struct {
	gateway ports.PaymentGateway
	guard   ports.InFlightGuard
	timeout time.Duration
	now     func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(gateway ports.PaymentGateway, guard ports.InFlightGuard, timeout time.Duration) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		guard:   guard,
		timeout: timeout,
		now:     time.Now,
	}
}

// Prepare validates a submission and returns the authorization to send.
// Card fields are formatted with the live input masks before validation.
func Prepare(req domain.PaymentRequest, charge domain.Charge) (domain.Authorization, error) {
	if !req.Method.Valid() {
		return domain.Authorization{}, domain.ErrUnsupportedMethod
	}

	auth := domain.Authorization{
		Method:    req.Method,
		Amount:    charge.Amount,
		Currency:  charge.Currency,
		Reference: charge.Reference,
	}

	if req.Method == domain.MethodCard {
		if req.Card == nil {
			return domain.Authorization{}, domain.ErrCardRequired
		}
		card := req.Card.Formatted()
		if err := domain.ValidateCard(card); err != nil {
			return domain.Authorization{}, err
		}
		auth.CardLast4 = card.Last4()
	}

	return auth, nil
}

// Hold marks the session's payment as in flight until release is called.
// A second Hold for the same session fails with ErrPaymentInProgress. release is safe to call more than once.
func (s *PaymentService) Hold(ctx context.Context, sessionID string) (func(), error) {
	acquired, err := s.guard.Acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to acquire payment guard: %w", err)
	}
	if !acquired {
		return nil, ErrPaymentInProgress
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			if err := s.guard.Release(context.WithoutCancel(ctx), sessionID); err != nil {
				logger.Get().Warn("Failed to release payment guard", zap.String("session_id", sessionID), zap.Error(err))
			}
		})
	}, nil
}

// Authorize validates the request and authorizes it, returning a receipt holding only the card's last four digits.
// It does not take the session guard. Callers wrap it in Hold for as long as the submission is in flight.
func (s *PaymentService) Authorize(ctx context.Context, req domain.PaymentRequest, charge domain.Charge) (*domain.PaymentInfo, error) {
	auth, err := Prepare(req, charge)
	if err != nil {
		return nil, err
	}
	return s.authorize(ctx, auth)
}

func (s *PaymentService) authorize(ctx context.Context, auth domain.Authorization) (*domain.PaymentInfo, error) {
	authCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := logger.Get().With(
		zap.String("reference", auth.Reference),
		zap.String("method", string(auth.Method)),
	)
	log.Info("Authorizing payment", zap.String("amount", auth.Amount.StringFixed(2)), zap.String("currency", auth.Currency))

	authorizationID, err := s.gateway.Authorize(authCtx, auth)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("Payment authorization timed out", zap.Duration("timeout", s.timeout))
			return nil, ErrPaymentTimeout
		}
		log.Warn("Payment authorization failed", zap.Error(err))
		return nil, fmt.Errorf("service: failed to authorize payment: %w", err)
	}

	log.Info("Payment authorized", zap.String("authorization_id", authorizationID))

	return &domain.PaymentInfo{
		Method:          auth.Method,
		CardLast4:       auth.CardLast4,
		AuthorizationID: authorizationID,
		ProcessedAt:     s.now().UTC(),
	}, nil
}
