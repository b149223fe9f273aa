package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
)

const (
	connectAttempts = 30
	connectInterval = 2 * time.Second
)

// Connection wraps an AMQP connection.
type Connection struct {
	URL  string
	Conn *amqp.Connection
}

// Connect establishes a connection to RabbitMQ, waiting for the broker to come up.
func Connect(ctx context.Context, url string, log logger.Logger) (*Connection, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < connectAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			log.Infow("Connected to RabbitMQ")
			return &Connection{URL: url, Conn: conn}, nil
		}
		log.Warnw("Failed to connect to RabbitMQ, retrying", "error", err, "attempt", i+1, "interval", connectInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectInterval):
		}
	}

	return nil, fmt.Errorf("could not connect to RabbitMQ after %d attempts: %w", connectAttempts, err)
}

// Channel opens a new AMQP channel.
func (c *Connection) Channel() (*amqp.Channel, error) {
	return c.Conn.Channel()
}

// IsClosed reports whether the underlying connection is gone.
func (c *Connection) IsClosed() bool {
	return c.Conn == nil || c.Conn.IsClosed()
}

// Close closes the connection.
func (c *Connection) Close() error {
	if c.Conn != nil && !c.Conn.IsClosed() {
		return c.Conn.Close()
	}
	return nil
}
