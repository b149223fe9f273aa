package messaging

import (
	"context"
	"strings"

	apperrors "github.com/jeremy-gibrat/hello-world-cloud/pkg/errors"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/metrics"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/rabbitmq"
)

const sentStatus = "Message sent successfully"

// Publisher sends one text payload to the hello exchange.
type Publisher interface {
	Publish(ctx context.Context, body []byte, correlationID string) error
}

// Subscriber delivers messages from the hello queue.
type Subscriber interface {
	Start(handler rabbitmq.MessageHandler) error
	Stop() error
}

// Bridge connects the HTTP message endpoints to the broker.
type Bridge struct {
	publisher  Publisher
	subscriber Subscriber
	consumer   *Consumer
	buffer     *Buffer
	log        logger.Logger
}

func NewBridge(pub Publisher, sub Subscriber, buffer *Buffer, log logger.Logger) *Bridge {
	return &Bridge{
		publisher:  pub,
		subscriber: sub,
		consumer:   NewConsumer(buffer, log),
		buffer:     buffer,
		log:        log,
	}
}

// Start begins consuming into the buffer.
func (b *Bridge) Start() error {
	return b.subscriber.Start(b.consumer.HandleMessage)
}

func (b *Bridge) Stop() error {
	return b.subscriber.Stop()
}

// Send publishes text. Blank text is rejected without publishing.
func (b *Bridge) Send(ctx context.Context, text string) (models.SendMessageResponse, error) {
	if strings.TrimSpace(text) == "" {
		return models.SendMessageResponse{}, apperrors.ErrValidation.WithMessage("Message cannot be empty")
	}

	if err := b.publisher.Publish(ctx, []byte(text), logger.CorrelationID(ctx)); err != nil {
		metrics.IncMessagesPublished("failure")
		b.log.ErrorwCtx(ctx, "Failed to publish message", "error", err)
		return models.SendMessageResponse{}, apperrors.ErrUpstream.WithCause(err)
	}

	metrics.IncMessagesPublished("success")
	b.log.InfowCtx(ctx, "Message published", "size", len(text))
	return models.SendMessageResponse{Status: sentStatus, Message: text}, nil
}

// Received returns the buffered messages, oldest first.
func (b *Bridge) Received() []string {
	return b.buffer.Snapshot()
}
