package httpclient

import (
	"context"
	"net/http"
	"time"

	"booking-checkout/internal/core/logger"

	"go.uber.org/zap"
)

type rayIDKey struct{}

// WithRayID attaches a request id to ctx so outbound calls carry it as X-Ray-ID.
func WithRayID(ctx context.Context, rayID string) context.Context {
	return context.WithValue(ctx, rayIDKey{}, rayID)
}

// RayID returns the request id attached to ctx, if any.
func RayID(ctx context.Context) string {
	id, _ := ctx.Value(rayIDKey{}).(string)
	return id
}

// LoggingRoundTripper captures request details for debugging and propagates the ray id.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
// Query strings are not logged.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	rayID := RayID(req.Context())
	if rayID != "" && req.Header.Get("X-Ray-ID") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("X-Ray-ID", rayID)
	}

	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	log := logger.Get().With(
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.String("ray_id", rayID),
	)

	log.Debug("HTTP Request Started")

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}
