package domain

import (
	"regexp"
	"strings"

	"booking-checkout/internal/core/validation"
)

const (
	maxCardDigits = 16
	minCardDigits = 13
)

var (
	nonDigit     = regexp.MustCompile(`\D`)
	expiryFormat = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvFormat    = regexp.MustCompile(`^\d{3,4}$`)
)

// Field messages shown to the payer.
const (
	MsgCardNumber = "Please enter a valid card number"
	MsgCardName   = "Please enter the cardholder name"
	MsgCardExpiry = "Please enter a valid expiry date (MM/YY)"
	MsgCardCVV    = "Please enter a valid CVV"
)

// CardDetails holds raw card fields as typed by the payer.
// It must not outlive the capture step.
type CardDetails struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// FormatCardNumber keeps up to 16 digits grouped in blocks of four.
func FormatCardNumber(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) > maxCardDigits {
		digits = digits[:maxCardDigits]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry keeps up to four digits and inserts "/" once the year starts.
func FormatExpiry(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) > 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// FormatCVV strips non-digits and truncates to four.
func FormatCVV(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits
}

// Formatted applies the live input masks to every field.
func (c CardDetails) Formatted() CardDetails {
	return CardDetails{
		Number: FormatCardNumber(c.Number),
		Name:   strings.TrimSpace(c.Name),
		Expiry: FormatExpiry(c.Expiry),
		CVV:    FormatCVV(c.CVV),
	}
}

// ValidateCard checks number, name, expiry and CVV in that order.
// Only the first failing rule is reported.
func ValidateCard(c CardDetails) error {
	number := strings.Join(strings.Fields(c.Number), "")
	switch {
	case len(number) < minCardDigits || nonDigit.MatchString(number):
		return validation.FieldErrors{"number": MsgCardNumber}
	case strings.TrimSpace(c.Name) == "":
		return validation.FieldErrors{"name": MsgCardName}
	case !expiryFormat.MatchString(c.Expiry):
		return validation.FieldErrors{"expiry": MsgCardExpiry}
	case !cvvFormat.MatchString(c.CVV):
		return validation.FieldErrors{"cvv": MsgCardCVV}
	}
	return nil
}

// Last4 returns the final four digits of the card number.
func (c CardDetails) Last4() string {
	digits := nonDigit.ReplaceAllString(c.Number, "")
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
