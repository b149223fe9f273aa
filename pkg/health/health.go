package health

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

const checkTimeout = 5 * time.Second

type Checker interface {
	Check(ctx context.Context) error
	Name() string
}

type Health struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

type CheckResult struct {
	Status    Status    `json:"status"`
	Critical  bool      `json:"critical"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type registeredChecker struct {
	checker  Checker
	critical bool
}

type CheckerRegistry struct {
	checkers []registeredChecker
}

func NewCheckerRegistry() *CheckerRegistry {
	return &CheckerRegistry{
		checkers: make([]registeredChecker, 0),
	}
}

// Register adds a dependency the service cannot work without.
func (r *CheckerRegistry) Register(checker Checker) {
	r.checkers = append(r.checkers, registeredChecker{checker: checker, critical: true})
}

// RegisterOptional adds a side dependency. Its failure degrades the report
// but never makes it unhealthy.
func (r *CheckerRegistry) RegisterOptional(checker Checker) {
	r.checkers = append(r.checkers, registeredChecker{checker: checker})
}

// Check runs every registered checker. A failing critical dependency makes
// the report unhealthy; a failing optional one makes it degraded.
func (r *CheckerRegistry) Check(ctx context.Context) Health {
	return r.run(ctx, true)
}

// Ready runs the critical checkers only.
func (r *CheckerRegistry) Ready(ctx context.Context) Health {
	return r.run(ctx, false)
}

func (r *CheckerRegistry) run(ctx context.Context, includeOptional bool) Health {
	results := make(map[string]CheckResult, len(r.checkers))
	overall := StatusHealthy

	for _, rc := range r.checkers {
		if !rc.critical && !includeOptional {
			continue
		}

		result := CheckResult{Status: StatusHealthy, Critical: rc.critical, Timestamp: time.Now()}
		if err := rc.checker.Check(ctx); err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			switch {
			case rc.critical:
				overall = StatusUnhealthy
			case overall == StatusHealthy:
				overall = StatusDegraded
			}
		}
		results[rc.checker.Name()] = result
	}

	return Health{
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

type PostgreSQLChecker struct {
	db *sql.DB
}

func NewPostgreSQLChecker(db *sql.DB) *PostgreSQLChecker {
	return &PostgreSQLChecker{db: db}
}

func (c *PostgreSQLChecker) Name() string {
	return "postgresql"
}

func (c *PostgreSQLChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgresql ping failed: %w", err)
	}
	return nil
}

// BrokerConnection is the part of the RabbitMQ connection the checker needs.
type BrokerConnection interface {
	IsClosed() bool
}

type RabbitMQChecker struct {
	conn BrokerConnection
}

func NewRabbitMQChecker(conn BrokerConnection) *RabbitMQChecker {
	return &RabbitMQChecker{conn: conn}
}

func (c *RabbitMQChecker) Name() string {
	return "rabbitmq"
}

func (c *RabbitMQChecker) Check(ctx context.Context) error {
	if c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type ElasticsearchChecker struct {
	client Pinger
}

func NewElasticsearchChecker(client Pinger) *ElasticsearchChecker {
	return &ElasticsearchChecker{client: client}
}

func (c *ElasticsearchChecker) Name() string {
	return "elasticsearch"
}

func (c *ElasticsearchChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	return c.client.Ping(ctx)
}
