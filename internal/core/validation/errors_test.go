package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors(t *testing.T) {
	f := FieldErrors{}
	assert.NoError(t, f.Err())

	f.Required("email", "  ", "Email is required")
	f.Required("name", "Ana", "Name is required")
	f.Add("email", "second message is ignored")
	f.Add("city", "City is required")

	err := f.Err()
	require.Error(t, err)
	assert.Equal(t, "validation failed: city: City is required; email: Email is required", err.Error())

	var fe FieldErrors
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &fe))
	assert.Len(t, fe, 2)
}
