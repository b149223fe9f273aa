package messaging

import (
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/metrics"
)

// Consumer appends every delivered message body to a Buffer.
type Consumer struct {
	buffer *Buffer
	log    logger.Logger
}

func NewConsumer(buffer *Buffer, log logger.Logger) *Consumer {
	return &Consumer{buffer: buffer, log: log}
}

// HandleMessage is the rabbitmq.MessageHandler for the hello queue. It
// never fails, so every delivery is acked.
func (c *Consumer) HandleMessage(msg amqp.Delivery) error {
	body := string(msg.Body)
	c.buffer.Add(body)

	metrics.IncMessagesReceived()
	metrics.SetMessageBufferSize(c.buffer.Len())
	c.log.Infow("Message received", "correlation_id", msg.CorrelationId, "size", len(msg.Body))
	return nil
}
