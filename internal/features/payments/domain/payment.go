package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Method is the payment instrument chosen by the payer.
type Method string

const (
	MethodCard      Method = "card"
	MethodPayPal    Method = "paypal"
	MethodApplePay  Method = "apple_pay"
	MethodGooglePay Method = "google_pay"
)

var (
	// ErrUnsupportedMethod is returned for methods outside the supported set.
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	// ErrCardRequired is returned when a card payment carries no card fields.
	ErrCardRequired = errors.New("card details are required for card payments")
	// ErrDeclined is returned when the gateway refuses the authorization.
	ErrDeclined = errors.New("payment declined")
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodPayPal, MethodApplePay, MethodGooglePay:
		return true
	}
	return false
}

// PaymentRequest is the payer's submission.
type PaymentRequest struct {
	Method Method       `json:"method"`
	Card   *CardDetails `json:"card,omitempty"`
}

// Charge describes what is being authorized.
type Charge struct {
	Amount    decimal.Decimal
	Currency  string
	Reference string
}

// Authorization is what a gateway needs to approve a charge.
// It never carries the full card number.
type Authorization struct {
	Method    Method          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	CardLast4 string          `json:"card_last4,omitempty"`
	Reference string          `json:"reference"`
}

// PaymentInfo is the opaque receipt returned after a successful capture.
type PaymentInfo struct {
	Method          Method    `json:"method"`
	CardLast4       string    `json:"card_last4,omitempty"`
	AuthorizationID string    `json:"authorization_id"`
	ProcessedAt     time.Time `json:"processed_at"`
}
