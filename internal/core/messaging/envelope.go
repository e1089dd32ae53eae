package messaging

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Producer is stamped on every envelope emitted by this service.
const Producer = "booking-checkout"

// Envelope represents the common envelope for all events.
// It is generic to allow strongly typed payloads per event.
type Envelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	OccurredAt    time.Time `json:"occurredAt"`
	Payload       T         `json:"payload"`
}

// NewEnvelope wraps payload with a fresh event id.
func NewEnvelope[T any](name string, version int, partitionKey, correlationID string, payload T) Envelope[T] {
	return Envelope[T]{
		EventName:     name,
		EventVersion:  version,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      Producer,
		PartitionKey:  partitionKey,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}
}

// Validate ensures the envelope contains the expected event identity.
func (e Envelope[T]) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName: %s", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion: %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	return nil
}
