package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CancellationOutcome is derived on demand and never stored on its own.
type CancellationOutcome struct {
	RefundAmount decimal.Decimal `json:"refund_amount" swaggertype:"string" example:"80.00"`
	RefundIssued bool            `json:"refund_issued"`
	Message      string          `json:"message"`
	Policy       string          `json:"policy"`
}

// ComputeCancellation refunds the total minus the fee, never below zero.
func ComputeCancellation(total, fee decimal.Decimal, currency, policy string) CancellationOutcome {
	refund := decimal.Max(decimal.Zero, total.Sub(fee)).Round(2)

	outcome := CancellationOutcome{
		RefundAmount: refund,
		RefundIssued: refund.IsPositive(),
		Policy:       policy,
	}
	if outcome.RefundIssued {
		outcome.Message = fmt.Sprintf("Your booking has been cancelled. A refund of %s %s will be issued to your original payment method.", refund.StringFixed(2), currency)
	} else {
		outcome.Message = "Your booking has been cancelled. No refund will be issued for this booking."
	}
	return outcome
}
