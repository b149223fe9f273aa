package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/jeremy-gibrat/hello-world-cloud/internal/api"
	"github.com/jeremy-gibrat/hello-world-cloud/internal/messaging"
	"github.com/jeremy-gibrat/hello-world-cloud/internal/search"
	"github.com/jeremy-gibrat/hello-world-cloud/internal/users"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/circuitbreaker"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/config"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/elasticsearch"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/health"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/metrics"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/postgres"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/rabbitmq"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/workerpool"
)

const mirrorQueueSize = 1000

type App struct {
	config *config.Config
	logger logger.Logger

	db        *sql.DB
	rmqConn   *rabbitmq.Connection
	publisher *rabbitmq.Publisher
	bridge    *messaging.Bridge
	mirror    *search.Mirror
	health    *health.CheckerRegistry
	server    *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config: cfg,
		logger: log,
		health: health.NewCheckerRegistry(),
	}
}

// Initialize connects every enabled backing service and builds the router.
// Feature flags are read here once; nothing is constructed for a disabled
// integration.
func (a *App) Initialize(ctx context.Context) error {
	metrics.Register()

	if err := a.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	deps := api.RouterDeps{Health: a.health, Logger: a.logger}

	var indexer users.Indexer
	if a.config.Elasticsearch.Enabled {
		searchSvc, err := a.initSearch(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize search: %w", err)
		}
		deps.Search = searchSvc
		indexer = a.mirror
	}

	if a.config.RabbitMQ.Enabled {
		if err := a.initMessaging(ctx); err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		deps.Messages = a.bridge
	}

	deps.Users = users.NewService(users.NewPostgresRepository(a.db), indexer, a.logger)

	gin.SetMode(gin.ReleaseMode)
	a.server = &http.Server{
		Addr:         ":" + a.config.Server.Port,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}
	return nil
}

func (a *App) initDatabase(ctx context.Context) error {
	db, err := postgres.Connect(ctx, a.config.Database.URL, a.logger)
	if err != nil {
		return err
	}
	a.db = db

	if err := postgres.RunMigrations(ctx, db); err != nil {
		return err
	}

	a.health.Register(health.NewPostgreSQLChecker(db))
	a.logger.InfowCtx(ctx, "Database ready")
	return nil
}

func (a *App) initSearch(ctx context.Context) (*search.Service, error) {
	esCfg := a.config.Elasticsearch
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esCfg.Address()},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
	})
	if err != nil {
		return nil, err
	}

	// An unreachable cluster does not block startup; search calls fail
	// individually and health reports it.
	if err := client.Ping(ctx); err != nil {
		a.logger.WarnwCtx(ctx, "Elasticsearch not reachable at startup", "address", esCfg.Address(), "error", err)
	}

	svc := search.NewService(client, a.logger)

	breaker := circuitbreaker.NewWrapper(circuitbreaker.DefaultConfig("elasticsearch", a.config.Search.BreakerTimeout))

	var pool *workerpool.Pool
	if a.config.Search.MirrorMode == config.MirrorAsync {
		pool = workerpool.New("search-mirror", a.config.Search.MirrorWorkers, mirrorQueueSize, a.logger)
	}

	mirror, err := search.NewMirror(a.config.Search.MirrorMode, svc, breaker, pool, a.logger)
	if err != nil {
		return nil, err
	}
	a.mirror = mirror

	a.health.RegisterOptional(health.NewElasticsearchChecker(client))
	a.logger.InfowCtx(ctx, "Search enabled", "address", esCfg.Address(), "mirror_mode", mirror.Mode())
	return svc, nil
}

func (a *App) initMessaging(ctx context.Context) error {
	conn, err := rabbitmq.Connect(ctx, a.config.RabbitMQ.URL, a.logger)
	if err != nil {
		return err
	}
	a.rmqConn = conn

	publisher, err := rabbitmq.NewPublisher(conn, a.logger)
	if err != nil {
		return err
	}
	a.publisher = publisher

	consumer := rabbitmq.NewConsumer(conn, rabbitmq.DefaultConsumerConfig(), a.logger)
	bridge := messaging.NewBridge(publisher, consumer, messaging.NewBuffer(messaging.DefaultCapacity), a.logger)
	if err := bridge.Start(); err != nil {
		return err
	}
	a.bridge = bridge

	a.health.RegisterOptional(health.NewRabbitMQChecker(conn))
	a.logger.InfowCtx(ctx, "Messaging enabled", "exchange", rabbitmq.ExchangeName, "queue", rabbitmq.QueueName)
	return nil
}

// Run serves HTTP until ctx is cancelled or the server fails, then shuts
// everything down.
func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.InfowCtx(ctx, "HTTP server starting", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		return a.Shutdown()
	})

	return g.Wait()
}

// abort releases whatever Initialize managed to open before failing.
func (a *App) abort(ctx context.Context, cause error) error {
	a.logger.ErrorwCtx(ctx, "Failed to initialize application", "error", cause)

	if err := a.Shutdown(); err != nil {
		a.logger.ErrorwCtx(ctx, "Cleanup after failed initialization", "error", err)
		return errors.Join(cause, err)
	}
	return cause
}

// Shutdown stops components in dependency order: HTTP server, message
// bridge, mirror pool, broker connection, database.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	a.logger.InfowCtx(ctx, "Shutting down")

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}

	if a.bridge != nil {
		if err := a.bridge.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("message bridge stop: %w", err))
		}
	}

	if a.mirror != nil {
		if err := a.mirror.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("search mirror stop: %w", err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher close: %w", err))
		}
	}

	if a.rmqConn != nil {
		if err := a.rmqConn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("rabbitmq close: %w", err))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	a.logger.InfowCtx(ctx, "Server exited gracefully")
	return nil
}
