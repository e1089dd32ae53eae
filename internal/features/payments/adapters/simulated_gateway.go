package adapters

import (
	"context"
	"strings"
	"time"

	"booking-checkout/internal/features/payments/domain"

	"github.com/google/uuid"
)

// SimulatedGateway approves every authorization after a fixed latency.
// It stands in for a real processor in local and demo environments.
type SimulatedGateway struct {
	latency time.Duration
}

// NewSimulatedGateway creates a new SimulatedGateway.
func NewSimulatedGateway(latency time.Duration) *SimulatedGateway {
	return &SimulatedGateway{latency: latency}
}

// Authorize waits for the configured latency and returns a fresh authorization id.
func (g *SimulatedGateway) Authorize(ctx context.Context, auth domain.Authorization) (string, error) {
	timer := time.NewTimer(g.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	return "AUTH-" + strings.ToUpper(uuid.NewString()[:8]), nil
}
