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
	"booking-checkout/internal/features/addresses/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAddressBook is a mock implementation of ports.AddressBook
type MockAddressBook struct {
	mock.Mock
}

func (m *MockAddressBook) List(ctx context.Context, userID string) ([]domain.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *MockAddressBook) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressBook) Save(ctx context.Context, userID string, a domain.Address) (*domain.Address, bool, error) {
	args := m.Called(ctx, userID, a)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Address), args.Bool(1), args.Error(2)
}

func (m *MockAddressBook) Delete(ctx context.Context, userID, id string, confirmed bool) error {
	args := m.Called(ctx, userID, id, confirmed)
	return args.Error(0)
}

func (m *MockAddressBook) SetDefault(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func setupApp(service *MockAddressBook) *fiber.App {
	app := fiber.New()
	NewAddressHandler(service).Register(app.Group("", server.RequireUser()))
	return app
}

func request(method, path string, body any) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(server.UserHeader, "u1")
	return req
}

func TestAddressHandler_List(t *testing.T) {
	mockService := new(MockAddressBook)
	app := setupApp(mockService)

	mockService.On("List", mock.Anything, "u1").Return([]domain.Address{{ID: "a1", IsDefault: true}}, nil).Once()

	resp, err := app.Test(request(http.MethodGet, "/addresses", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []domain.Address
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got, 1)
}

func TestAddressHandler_RequiresUser(t *testing.T) {
	app := setupApp(new(MockAddressBook))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/addresses", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAddressHandler_Save(t *testing.T) {
	body := SaveAddressRequest{Name: "Ana", Street: "Calle 1", City: "Bogota", Country: "CO", Phone: "300"}

	tests := []struct {
		name         string
		method       string
		path         string
		id           string
		result       *domain.Address
		inserted     bool
		err          error
		expectedCode int
	}{
		{name: "Create", method: http.MethodPost, path: "/addresses", result: &domain.Address{ID: "a1"}, inserted: true, expectedCode: http.StatusCreated},
		{name: "Update", method: http.MethodPut, path: "/addresses/a1", id: "a1", result: &domain.Address{ID: "a1"}, expectedCode: http.StatusOK},
		{name: "NotFound", method: http.MethodPut, path: "/addresses/a9", id: "a9", err: domain.ErrNotFound, expectedCode: http.StatusNotFound},
		{name: "Invalid", method: http.MethodPost, path: "/addresses", err: validation.FieldErrors{"city": "City is required"}, expectedCode: http.StatusUnprocessableEntity},
		{name: "Internal", method: http.MethodPost, path: "/addresses", err: errors.New("db down"), expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAddressBook)
			app := setupApp(mockService)

			if tt.err != nil {
				mockService.On("Save", mock.Anything, "u1", body.ToDomain(tt.id)).Return(nil, false, tt.err).Once()
			} else {
				mockService.On("Save", mock.Anything, "u1", body.ToDomain(tt.id)).Return(tt.result, tt.inserted, nil).Once()
			}

			resp, err := app.Test(request(tt.method, tt.path, body))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.StatusCode)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAddressHandler_Delete(t *testing.T) {
	t.Run("Unconfirmed", func(t *testing.T) {
		mockService := new(MockAddressBook)
		app := setupApp(mockService)

		mockService.On("Delete", mock.Anything, "u1", "a1", false).Return(domain.ErrConfirmationRequired).Once()

		resp, err := app.Test(request(http.MethodDelete, "/addresses/a1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Confirmed", func(t *testing.T) {
		mockService := new(MockAddressBook)
		app := setupApp(mockService)

		mockService.On("Delete", mock.Anything, "u1", "a1", true).Return(nil).Once()

		resp, err := app.Test(request(http.MethodDelete, "/addresses/a1?confirm=true", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockService.AssertExpectations(t)
	})
}

func TestAddressHandler_SetDefault(t *testing.T) {
	mockService := new(MockAddressBook)
	app := setupApp(mockService)

	mockService.On("SetDefault", mock.Anything, "u1", "a2").Return(nil).Once()

	resp, err := app.Test(request(http.MethodPost, "/addresses/a2/default", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
