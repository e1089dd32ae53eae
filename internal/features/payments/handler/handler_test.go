package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"booking-checkout/internal/core/server"
	"booking-checkout/internal/features/payments/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp() *fiber.App {
	app := fiber.New()
	NewPaymentHandler().Register(app)
	return app
}

func post(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestPaymentHandler_Format(t *testing.T) {
	app := setupApp()

	resp := post(t, app, "/payments/format", domain.CardDetails{
		Number: "4242424242424242",
		Name:   " Ana Ruiz ",
		Expiry: "1225",
		CVV:    "12a34",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.CardDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "4242 4242 4242 4242", got.Number)
	assert.Equal(t, "Ana Ruiz", got.Name)
	assert.Equal(t, "12/25", got.Expiry)
	assert.Equal(t, "1234", got.CVV)
}

func TestPaymentHandler_Validate(t *testing.T) {
	tests := []struct {
		name          string
		card          domain.CardDetails
		expectedCode  int
		expectedField string
		expectedMsg   string
	}{
		{
			name:         "Valid",
			card:         domain.CardDetails{Number: "4242424242424242", Name: "Ana", Expiry: "1225", CVV: "123"},
			expectedCode: http.StatusOK,
		},
		{
			name:          "ShortNumber",
			card:          domain.CardDetails{Number: "4242", Name: "", Expiry: "", CVV: ""},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedField: "number",
			expectedMsg:   domain.MsgCardNumber,
		},
		{
			name:          "BadExpiry",
			card:          domain.CardDetails{Number: "4242424242424242", Name: "Ana", Expiry: "12", CVV: "123"},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedField: "expiry",
			expectedMsg:   domain.MsgCardExpiry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, setupApp(), "/payments/validate", tt.card)
			assert.Equal(t, tt.expectedCode, resp.StatusCode)

			if tt.expectedField == "" {
				return
			}
			var body server.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Len(t, body.Fields, 1)
			assert.Equal(t, tt.expectedMsg, body.Fields[tt.expectedField])
		})
	}
}

func TestPaymentHandler_InvalidBody(t *testing.T) {
	app := setupApp()

	req := httptest.NewRequest(http.MethodPost, "/payments/validate", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
