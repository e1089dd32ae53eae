package messaging

import (
	"context"
	"fmt"
	"time"

	"booking-checkout/internal/core/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends a JSON body to a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

// RabbitPublisher publishes persistent JSON messages on the default exchange.
type RabbitPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewRabbitPublisher dials the broker and declares the given durable queues
// so publishing never fails due to missing infrastructure.
func NewRabbitPublisher(url string, queues ...string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("declare %s: %w", q, err)
		}
	}

	return &RabbitPublisher{conn: conn, ch: ch}, nil
}

// Publish sends body to the queue named by routingKey.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := p.ch.PublishWithContext(
		pubCtx,
		"",         // default exchange
		routingKey, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *RabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NoopPublisher drops messages. Used when no broker is configured.
type NoopPublisher struct{}

// Publish logs the dropped message at debug level.
func (NoopPublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	logger.Get().Debug("Event publishing disabled, dropping message",
		zap.String("routing_key", routingKey),
		zap.Int("bytes", len(body)),
	)
	return nil
}

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }
