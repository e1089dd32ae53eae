package ports

import (
	"context"

	"booking-checkout/internal/features/payments/domain"
)

// PaymentGateway authorizes a charge and returns the gateway's authorization id.
type PaymentGateway interface {
	Authorize(ctx context.Context, auth domain.Authorization) (string, error)
}

// InFlightGuard prevents concurrent submissions for the same session.
type InFlightGuard interface {
	// Acquire reports false when a submission is already processing.
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}
