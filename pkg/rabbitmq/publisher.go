package rabbitmq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
)

// Publisher publishes text messages to the hello exchange.
type Publisher struct {
	channel *amqp.Channel
	log     logger.Logger
}

// NewPublisher opens a channel and declares the topic exchange.
func NewPublisher(conn *Connection, log logger.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if err := declareExchange(ch); err != nil {
		ch.Close()
		return nil, err
	}

	return &Publisher{channel: ch, log: log}, nil
}

// Publish sends body to the exchange with the fixed routing key.
// Broker confirmation is not awaited.
func (p *Publisher) Publish(ctx context.Context, body []byte, correlationID string) error {
	p.log.DebugwCtx(ctx, "Publishing message", "exchange", ExchangeName, "routing_key", RoutingKey, "bytes", len(body))

	return p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "text/plain",
			CorrelationId: correlationID,
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			Timestamp:     time.Now(),
		},
	)
}

// Close closes the publisher channel.
func (p *Publisher) Close() error {
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel.Close()
	}
	return nil
}
