package domain

import (
	"errors"
	"testing"

	"booking-checkout/internal/core/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_Validate(t *testing.T) {
	valid := Address{Name: "Ana", Street: "Calle 1", City: "Bogota", Country: "CO", Phone: "3001234567"}
	assert.NoError(t, valid.Validate())

	err := Address{Name: "Ana", Street: "  "}.Validate()
	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe, 4)
	assert.Contains(t, fe, "street")
	assert.Contains(t, fe, "city")
	assert.Contains(t, fe, "country")
	assert.Contains(t, fe, "phone")
	assert.NotContains(t, fe, "name")
}

func TestAddress_NormalizeAndOneLine(t *testing.T) {
	a := Address{Name: " Ana ", Street: "Calle 1 ", City: "Bogota", Zip: "110111", Country: " CO"}
	a.Normalize()

	assert.Equal(t, "Ana", a.Name)
	assert.Equal(t, "Calle 1, Bogota, 110111, CO", a.OneLine())
}
