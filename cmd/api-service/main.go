package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/jeremy-gibrat/hello-world-cloud/docs"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/config"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
)

var configFile string

// @title           Hello World Cloud API
// @version         1.0
// @description     User CRUD backed by PostgreSQL, with optional Elasticsearch search and RabbitMQ messaging.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
func main() {
	rootCmd := &cobra.Command{
		Use:   "api-service",
		Short: "Hello World Cloud backend",
		Long:  "REST API for users, with optional search indexing and message queue bridging",
		RunE:  serveCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to an optional YAML config file")

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, err := logger.New(cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.InfowCtx(ctx, "Starting api-service",
				"port", cfg.Server.Port,
				"rabbitmq_enabled", cfg.RabbitMQ.Enabled,
				"elasticsearch_enabled", cfg.Elasticsearch.Enabled,
			)

			app := NewApp(cfg, log)
			if err := app.Initialize(ctx); err != nil {
				return app.abort(ctx, err)
			}

			if err := app.Run(ctx); err != nil {
				log.ErrorwCtx(ctx, "Application error", "error", err)
				return err
			}
			return nil
		},
	}
}
