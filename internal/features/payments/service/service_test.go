package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-checkout/internal/core/validation"
	"booking-checkout/internal/features/payments/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway is a mock implementation of ports.PaymentGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Authorize(ctx context.Context, auth domain.Authorization) (string, error) {
	args := m.Called(ctx, auth)
	return args.String(0), args.Error(1)
}

// MockGuard is a mock implementation of ports.InFlightGuard
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Acquire(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuard) Release(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

var testCharge = domain.Charge{
	Amount:    decimal.RequireFromString("300.00"),
	Currency:  "USD",
	Reference: "BK-TEST0001",
}

func cardRequest() domain.PaymentRequest {
	return domain.PaymentRequest{
		Method: domain.MethodCard,
		Card: &domain.CardDetails{
			Number: "4242424242424242",
			Name:   "Ana Ruiz",
			Expiry: "1225",
			CVV:    "123",
		},
	}
}

func TestPaymentService_Authorize_Card(t *testing.T) {
	gateway := new(MockGateway)
	guard := new(MockGuard)
	svc := NewPaymentService(gateway, guard, time.Second)

	gateway.On("Authorize", mock.Anything, mock.MatchedBy(func(a domain.Authorization) bool {
		return a.CardLast4 == "4242" && a.Method == domain.MethodCard && a.Amount.Equal(testCharge.Amount)
	})).Return("AUTH-1", nil).Once()

	info, err := svc.Authorize(context.Background(), cardRequest(), testCharge)
	require.NoError(t, err)

	assert.Equal(t, domain.MethodCard, info.Method)
	assert.Equal(t, "4242", info.CardLast4)
	assert.Equal(t, "AUTH-1", info.AuthorizationID)
	assert.False(t, info.ProcessedAt.IsZero())
	gateway.AssertExpectations(t)
	guard.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
}

func TestPaymentService_Authorize_Wallet(t *testing.T) {
	gateway := new(MockGateway)
	svc := NewPaymentService(gateway, new(MockGuard), time.Second)

	gateway.On("Authorize", mock.Anything, mock.AnythingOfType("domain.Authorization")).Return("AUTH-2", nil).Once()

	info, err := svc.Authorize(context.Background(), domain.PaymentRequest{Method: domain.MethodPayPal}, testCharge)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodPayPal, info.Method)
	assert.Empty(t, info.CardLast4)
}

func TestPaymentService_Authorize_ValidationFailsBeforeGateway(t *testing.T) {
	gateway := new(MockGateway)
	svc := NewPaymentService(gateway, new(MockGuard), time.Second)

	req := cardRequest()
	req.Card.CVV = "1"

	_, err := svc.Authorize(context.Background(), req, testCharge)

	var fe validation.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, domain.MsgCardCVV, fe["cvv"])
	gateway.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
}

func TestPaymentService_Authorize_UnsupportedAndMissingCard(t *testing.T) {
	svc := NewPaymentService(new(MockGateway), new(MockGuard), time.Second)

	_, err := svc.Authorize(context.Background(), domain.PaymentRequest{Method: "cash"}, testCharge)
	assert.ErrorIs(t, err, domain.ErrUnsupportedMethod)

	_, err = svc.Authorize(context.Background(), domain.PaymentRequest{Method: domain.MethodCard}, testCharge)
	assert.ErrorIs(t, err, domain.ErrCardRequired)
}

func TestPaymentService_Authorize_Timeout(t *testing.T) {
	gateway := new(MockGateway)
	svc := NewPaymentService(gateway, new(MockGuard), 10*time.Millisecond)

	gateway.On("Authorize", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded).Once()

	_, err := svc.Authorize(context.Background(), cardRequest(), testCharge)
	assert.ErrorIs(t, err, ErrPaymentTimeout)
}

func TestPaymentService_Authorize_Declined(t *testing.T) {
	gateway := new(MockGateway)
	svc := NewPaymentService(gateway, new(MockGuard), time.Second)

	gateway.On("Authorize", mock.Anything, mock.Anything).Return("", domain.ErrDeclined).Once()

	_, err := svc.Authorize(context.Background(), cardRequest(), testCharge)
	assert.ErrorIs(t, err, domain.ErrDeclined)
}

func TestPaymentService_Hold(t *testing.T) {
	guard := new(MockGuard)
	svc := NewPaymentService(new(MockGateway), guard, time.Second)
	ctx := context.Background()

	guard.On("Acquire", ctx, "s1").Return(true, nil).Once()
	guard.On("Release", mock.Anything, "s1").Return(nil).Once()

	release, err := svc.Hold(ctx, "s1")
	require.NoError(t, err)
	guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)

	release()
	release()
	guard.AssertExpectations(t)
	guard.AssertNumberOfCalls(t, "Release", 1)
}

func TestPaymentService_Hold_InProgress(t *testing.T) {
	guard := new(MockGuard)
	svc := NewPaymentService(new(MockGateway), guard, time.Second)
	ctx := context.Background()

	guard.On("Acquire", ctx, "s1").Return(false, nil).Once()

	_, err := svc.Hold(ctx, "s1")
	assert.ErrorIs(t, err, ErrPaymentInProgress)
	guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestPaymentService_Hold_ReleaseErrorIsLogged(t *testing.T) {
	guard := new(MockGuard)
	svc := NewPaymentService(new(MockGateway), guard, time.Second)
	ctx := context.Background()

	guard.On("Acquire", ctx, "s1").Return(true, nil).Once()
	guard.On("Release", mock.Anything, "s1").Return(errors.New("redis down")).Once()

	release, err := svc.Hold(ctx, "s1")
	require.NoError(t, err)
	assert.NotPanics(t, release)
	guard.AssertExpectations(t)
}

func TestPaymentService_Hold_GuardError(t *testing.T) {
	guard := new(MockGuard)
	svc := NewPaymentService(new(MockGateway), guard, time.Second)
	ctx := context.Background()

	guard.On("Acquire", ctx, "s1").Return(false, errors.New("redis down")).Once()

	_, err := svc.Hold(ctx, "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to acquire payment guard")
}
