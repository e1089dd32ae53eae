package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"booking-checkout/internal/core/httpclient"
	"booking-checkout/internal/features/payments/domain"
)

// HTTPGateway forwards authorizations to a remote payment processor.
type HTTPGateway struct {
	url    string
	client *http.Client
}

// NewHTTPGateway creates a new HTTPGateway posting to url.
func NewHTTPGateway(url string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		url:    url,
		client: httpclient.NewClient(timeout),
	}
}

type authorizeRequest struct {
	Method    domain.Method `json:"method"`
	Amount    string        `json:"amount"`
	Currency  string        `json:"currency"`
	CardLast4 string        `json:"card_last4,omitempty"`
	Reference string        `json:"reference"`
}

type authorizeResponse struct {
	AuthorizationID string `json:"authorization_id"`
	Message         string `json:"message"`
}

// Authorize posts the authorization and returns the processor's id.
// A 402 answer maps to domain.ErrDeclined.
func (g *HTTPGateway) Authorize(ctx context.Context, auth domain.Authorization) (string, error) {
	body, err := json.Marshal(authorizeRequest{
		Method:    auth.Method,
		Amount:    auth.Amount.StringFixed(2),
		Currency:  auth.Currency,
		CardLast4: auth.CardLast4,
		Reference: auth.Reference,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal authorization: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", auth.Reference)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gateway response: %w", err)
	}

	var parsed authorizeResponse
	_ = json.Unmarshal(raw, &parsed)

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		if parsed.Message != "" {
			return "", fmt.Errorf("%w: %s", domain.ErrDeclined, parsed.Message)
		}
		return "", domain.ErrDeclined
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	case parsed.AuthorizationID == "":
		return "", fmt.Errorf("payment gateway returned no authorization id")
	}

	return parsed.AuthorizationID, nil
}
