package rabbitmq

import amqp "github.com/rabbitmq/amqp091-go"

// Fixed broker topology shared by the publisher and the consumer.
const (
	ExchangeName = "hello.exchange"
	QueueName    = "hello.queue"
	RoutingKey   = "hello.routing.key"
)

func declareExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}
