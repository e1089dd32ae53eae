package domain

import (
	"testing"

	"booking-checkout/internal/core/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4242 4242 4242 4242", "4242 4242 4242 4242"},
		{"4242424242424242", "4242 4242 4242 4242"},
		{"42424", "4242 4"},
		{"4242-4242-4242-4242-9999", "4242 4242 4242 4242"},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCardNumber(tt.in), "input %q", tt.in)
	}
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "12/25", FormatExpiry("1225"))
	assert.Equal(t, "12/25", FormatExpiry("12/25"))
	assert.Equal(t, "12/2", FormatExpiry("122"))
	assert.Equal(t, "12", FormatExpiry("12"))
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12/25", FormatExpiry("122599"))
}

func TestFormatCVV(t *testing.T) {
	assert.Equal(t, "123", FormatCVV("1a2b3"))
	assert.Equal(t, "1234", FormatCVV("123456"))
	assert.Equal(t, "", FormatCVV("abc"))
}

func validCard() CardDetails {
	return CardDetails{Number: "4242 4242 4242 4242", Name: "Ana Ruiz", Expiry: "12/25", CVV: "123"}
}

func TestValidateCard(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, ValidateCard(validCard()))
	})

	tests := []struct {
		name  string
		card  func(c *CardDetails)
		field string
		msg   string
	}{
		{"ShortNumber", func(c *CardDetails) { c.Number = "4242" }, "number", MsgCardNumber},
		{"LettersInNumber", func(c *CardDetails) { c.Number = "4242 4242 4242 424x" }, "number", MsgCardNumber},
		{"MissingName", func(c *CardDetails) { c.Name = " " }, "name", MsgCardName},
		{"BadExpiry", func(c *CardDetails) { c.Expiry = "1225" }, "expiry", MsgCardExpiry},
		{"ShortCVV", func(c *CardDetails) { c.CVV = "12" }, "cvv", MsgCardCVV},
		{"LongCVV", func(c *CardDetails) { c.CVV = "12345" }, "cvv", MsgCardCVV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.card(&card)

			err := ValidateCard(card)
			require.Error(t, err)
			fe, ok := err.(validation.FieldErrors)
			require.True(t, ok)
			assert.Equal(t, validation.FieldErrors{tt.field: tt.msg}, fe)
		})
	}

	t.Run("FirstFailureWins", func(t *testing.T) {
		err := ValidateCard(CardDetails{Number: "4242", Name: "", Expiry: "x", CVV: ""})
		assert.Equal(t, validation.FieldErrors{"number": MsgCardNumber}, err)
	})

	t.Run("ThirteenDigits", func(t *testing.T) {
		card := validCard()
		card.Number = "4222222222222"
		assert.NoError(t, ValidateCard(card))
	})
}

func TestCardDetails_FormattedAndLast4(t *testing.T) {
	c := CardDetails{Number: "4242424242424242", Name: "  Ana ", Expiry: "1225", CVV: "12a3"}.Formatted()

	assert.Equal(t, "4242 4242 4242 4242", c.Number)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, "12/25", c.Expiry)
	assert.Equal(t, "123", c.CVV)
	assert.Equal(t, "4242", c.Last4())
	assert.Equal(t, "42", CardDetails{Number: "42"}.Last4())
}

func TestMethod_Valid(t *testing.T) {
	for _, m := range []Method{MethodCard, MethodPayPal, MethodApplePay, MethodGooglePay} {
		assert.True(t, m.Valid())
	}
	assert.False(t, Method("bitcoin").Valid())
}
