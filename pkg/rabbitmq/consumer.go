package rabbitmq

import (
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
)

// ConsumerConfig holds configuration for setting up a consumer.
type ConsumerConfig struct {
	QueueName    string
	RoutingKey   string
	ConsumerName string
}

// DefaultConsumerConfig binds the hello queue to the hello exchange.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		QueueName:    QueueName,
		RoutingKey:   RoutingKey,
		ConsumerName: "hello-backend",
	}
}

// MessageHandler is a function that processes a delivered message.
// Return nil to ack, return error to nack without requeue.
type MessageHandler func(delivery amqp.Delivery) error

// Consumer owns one channel subscribed to a queue.
type Consumer struct {
	conn *Connection
	cfg  ConsumerConfig
	log  logger.Logger

	mu      sync.Mutex
	channel *amqp.Channel
	done    chan struct{}
}

func NewConsumer(conn *Connection, cfg ConsumerConfig, log logger.Logger) *Consumer {
	return &Consumer{conn: conn, cfg: cfg, log: log}
}

// Start declares the queue, binds it and starts delivering to handler.
func (c *Consumer) Start(handler MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		return errors.New("consumer already started")
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}

	msgs, err := c.subscribe(ch)
	if err != nil {
		ch.Close()
		return err
	}

	c.channel = ch
	c.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		for msg := range msgs {
			handleDelivery(msg, handler, c.cfg.ConsumerName, c.log)
		}
	}(c.done)

	c.log.Infow("Consumer started", "consumer", c.cfg.ConsumerName, "queue", c.cfg.QueueName)
	return nil
}

func (c *Consumer) subscribe(ch *amqp.Channel) (<-chan amqp.Delivery, error) {
	if err := declareExchange(ch); err != nil {
		return nil, err
	}

	_, err := ch.QueueDeclare(
		c.cfg.QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, err
	}

	if err := ch.QueueBind(c.cfg.QueueName, c.cfg.RoutingKey, ExchangeName, false, nil); err != nil {
		return nil, err
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return nil, err
	}

	return ch.Consume(
		c.cfg.QueueName,
		c.cfg.ConsumerName,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}

// Stop cancels the subscription and waits for in-flight deliveries.
func (c *Consumer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel == nil {
		return nil
	}

	var errs []error
	if !c.channel.IsClosed() {
		if err := c.channel.Cancel(c.cfg.ConsumerName, false); err != nil {
			errs = append(errs, err)
			// closing the channel also closes the delivery stream
			_ = c.channel.Close()
		}
	}
	<-c.done

	if !c.channel.IsClosed() {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.channel = nil

	c.log.Infow("Consumer stopped", "consumer", c.cfg.ConsumerName)
	return errors.Join(errs...)
}

func handleDelivery(msg amqp.Delivery, handler MessageHandler, consumerName string, log logger.Logger) {
	log.Debugw("Received message", "consumer", consumerName,
		"routing_key", msg.RoutingKey, "correlation_id", msg.CorrelationId)

	if err := handler(msg); err != nil {
		log.Errorw("Error processing message, nacking", "consumer", consumerName,
			"error", err, "correlation_id", msg.CorrelationId)
		_ = msg.Nack(false, false)
		return
	}
	_ = msg.Ack(false)
}
