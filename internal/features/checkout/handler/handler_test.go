package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"booking-checkout/internal/core/server"
	"booking-checkout/internal/core/validation"
	addresses "booking-checkout/internal/features/addresses/domain"
	"booking-checkout/internal/features/checkout/domain"
	"booking-checkout/internal/features/checkout/service"
	payments "booking-checkout/internal/features/payments/domain"
	paymentservice "booking-checkout/internal/features/payments/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutService is a mock implementation of ports.CheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) draftResult(args mock.Arguments) (*domain.Draft, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockCheckoutService) viewResult(args mock.Arguments) (*domain.View, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.View), args.Error(1)
}

func (m *MockCheckoutService) StageDraft(ctx context.Context, sessionID string, draft domain.Draft) (*domain.Draft, error) {
	return m.draftResult(m.Called(ctx, sessionID, draft))
}

func (m *MockCheckoutService) GetDraft(ctx context.Context, sessionID string) (*domain.Draft, error) {
	return m.draftResult(m.Called(ctx, sessionID))
}

func (m *MockCheckoutService) Start(ctx context.Context, sessionID, userID string) (*domain.View, error) {
	return m.viewResult(m.Called(ctx, sessionID, userID))
}

func (m *MockCheckoutService) View(ctx context.Context, sessionID, userID string) (*domain.View, error) {
	return m.viewResult(m.Called(ctx, sessionID, userID))
}

func (m *MockCheckoutService) SelectAddress(ctx context.Context, sessionID, userID, addressID string) (*domain.View, error) {
	return m.viewResult(m.Called(ctx, sessionID, userID, addressID))
}

func (m *MockCheckoutService) SaveAddress(ctx context.Context, sessionID, userID string, address addresses.Address) (*domain.View, error) {
	return m.viewResult(m.Called(ctx, sessionID, userID, address))
}

func (m *MockCheckoutService) DeleteAddress(ctx context.Context, sessionID, userID, addressID string, confirmed bool) (*domain.View, error) {
	return m.viewResult(m.Called(ctx, sessionID, userID, addressID, confirmed))
}

func (m *MockCheckoutService) Proceed(ctx context.Context, sessionID, userID string, guest domain.GuestDetails) (*domain.View, error) {
	return m.viewResult(m.Called(ctx, sessionID, userID, guest))
}

func (m *MockCheckoutService) Back(ctx context.Context, sessionID, userID string) (*domain.View, error) {
	return m.viewResult(m.Called(ctx, sessionID, userID))
}

func (m *MockCheckoutService) PlaceOrder(ctx context.Context, sessionID, userID string, req payments.PaymentRequest) (*domain.Placement, error) {
	args := m.Called(ctx, sessionID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Placement), args.Error(1)
}

func (m *MockCheckoutService) Confirmation(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func setupApp(service *MockCheckoutService) *fiber.App {
	app := fiber.New()
	NewCheckoutHandler(service).Register(app.Group("", server.RequireSession()))
	return app
}

func request(method, path string, body any, withUser bool) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(server.SessionHeader, "s1")
	if withUser {
		req.Header.Set(server.UserHeader, "u1")
	}
	return req
}

func decodeError(t *testing.T, resp *http.Response) server.ErrorResponse {
	t.Helper()
	var body server.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestCheckoutHandler_Start_NoDraft(t *testing.T) {
	mockService := new(MockCheckoutService)
	app := setupApp(mockService)

	mockService.On("Start", mock.Anything, "s1", "u1").Return(nil, domain.ErrNoDraft).Once()

	resp, err := app.Test(request(http.MethodPost, "/checkout/start", nil, true))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Equal(t, RestartRedirect, body.Redirect)
	assert.NotEmpty(t, body.Message)
}

func TestCheckoutHandler_RequiresUserForWizard(t *testing.T) {
	mockService := new(MockCheckoutService)
	app := setupApp(mockService)

	resp, err := app.Test(request(http.MethodGet, "/checkout", nil, false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	mockService.On("GetDraft", mock.Anything, "s1").Return(&domain.Draft{ServiceID: "svc-1"}, nil).Once()
	resp, err = app.Test(request(http.MethodGet, "/checkout/draft", nil, false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCheckoutHandler_RequiresSession(t *testing.T) {
	app := setupApp(new(MockCheckoutService))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/checkout/draft", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutHandler_StageDraft(t *testing.T) {
	mockService := new(MockCheckoutService)
	app := setupApp(mockService)

	mockService.On("StageDraft", mock.Anything, "s1", mock.AnythingOfType("domain.Draft")).Return(&domain.Draft{ServiceID: "svc-1"}, nil).Once()

	resp, err := app.Test(request(http.MethodPost, "/checkout/draft", map[string]any{
		"service_id":   "svc-1",
		"service_name": "Casa Azul",
		"check_in":     "2025-06-01",
		"check_out":    "2025-06-04",
		"adults":       2,
		"unit_price":   "100",
	}, false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_Transitions(t *testing.T) {
	guest := domain.GuestDetails{FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com"}

	tests := []struct {
		name         string
		method       string
		path         string
		body         any
		setup        func(m *MockCheckoutService)
		expectedCode int
	}{
		{
			name:   "Select address",
			method: http.MethodPost,
			path:   "/checkout/address",
			body:   SelectAddressRequest{AddressID: "a1"},
			setup: func(m *MockCheckoutService) {
				m.On("SelectAddress", mock.Anything, "s1", "u1", "a1").Return(&domain.View{SelectedAddressID: "a1"}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Select address without id",
			method:       http.MethodPost,
			path:         "/checkout/address",
			body:         SelectAddressRequest{},
			setup:        func(m *MockCheckoutService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "Select unknown address",
			method: http.MethodPost,
			path:   "/checkout/address",
			body:   SelectAddressRequest{AddressID: "a9"},
			setup: func(m *MockCheckoutService) {
				m.On("SelectAddress", mock.Anything, "s1", "u1", "a9").Return(nil, addresses.ErrNotFound).Once()
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:   "Delete unconfirmed",
			method: http.MethodDelete,
			path:   "/checkout/addresses/a1",
			setup: func(m *MockCheckoutService) {
				m.On("DeleteAddress", mock.Anything, "s1", "u1", "a1", false).Return(nil, addresses.ErrConfirmationRequired).Once()
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:   "Proceed without address",
			method: http.MethodPost,
			path:   "/checkout/proceed",
			body:   guest,
			setup: func(m *MockCheckoutService) {
				m.On("Proceed", mock.Anything, "s1", "u1", guest).Return(nil, domain.ErrNoAddressSelected).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "Proceed with invalid guest",
			method: http.MethodPost,
			path:   "/checkout/proceed",
			body:   guest,
			setup: func(m *MockCheckoutService) {
				m.On("Proceed", mock.Anything, "s1", "u1", guest).Return(nil, validation.FieldErrors{"phone": "Phone is required"}).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "Back from address step",
			method: http.MethodPost,
			path:   "/checkout/back",
			setup: func(m *MockCheckoutService) {
				m.On("Back", mock.Anything, "s1", "u1").Return(nil, domain.ErrIllegalTransition).Once()
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			app := setupApp(mockService)
			tt.setup(mockService)

			resp, err := app.Test(request(tt.method, tt.path, tt.body, true))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.StatusCode)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCheckoutHandler_Pay(t *testing.T) {
	req := payments.PaymentRequest{Method: payments.MethodApplePay}

	tests := []struct {
		name         string
		placement    *domain.Placement
		err          error
		expectedCode int
	}{
		{name: "Placed", placement: &domain.Placement{BookingID: "BK-1", Redirect: "/booking-confirmation/BK-1"}, expectedCode: http.StatusCreated},
		{name: "In progress", err: paymentservice.ErrPaymentInProgress, expectedCode: http.StatusConflict},
		{name: "Timeout", err: paymentservice.ErrPaymentTimeout, expectedCode: http.StatusGatewayTimeout},
		{name: "Declined", err: errors.Join(payments.ErrDeclined, errors.New("insufficient funds")), expectedCode: http.StatusPaymentRequired},
		{name: "Unsupported", err: payments.ErrUnsupportedMethod, expectedCode: http.StatusBadRequest},
		{name: "Invalid card", err: validation.FieldErrors{"number": "Please enter a valid card number"}, expectedCode: http.StatusUnprocessableEntity},
		{name: "Persist failed", err: service.ErrPersistFailed, expectedCode: http.StatusBadGateway},
		{name: "Internal", err: errors.New("redis down"), expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			app := setupApp(mockService)

			if tt.err != nil {
				mockService.On("PlaceOrder", mock.Anything, "s1", "u1", req).Return(nil, tt.err).Once()
			} else {
				mockService.On("PlaceOrder", mock.Anything, "s1", "u1", req).Return(tt.placement, nil).Once()
			}

			resp, err := app.Test(request(http.MethodPost, "/checkout/pay", req, true))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.StatusCode)

			if tt.placement != nil {
				var got domain.Placement
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
				assert.Equal(t, tt.placement.Redirect, got.Redirect)
			}
		})
	}
}

func TestCheckoutHandler_Confirmation(t *testing.T) {
	mockService := new(MockCheckoutService)
	app := setupApp(mockService)

	mockService.On("Confirmation", mock.Anything, "s1").Return(&domain.Confirmation{BookingID: "BK-1"}, nil).Once()
	mockService.On("Confirmation", mock.Anything, "s1").Return(nil, domain.ErrNoConfirmation).Once()

	resp, err := app.Test(request(http.MethodGet, "/checkout/confirmation", nil, false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(request(http.MethodGet, "/checkout/confirmation", nil, false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
