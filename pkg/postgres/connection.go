package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
)

const (
	connectAttempts = 30
	connectInterval = 2 * time.Second
)

// Connect establishes a connection to PostgreSQL, waiting for the server to come up.
func Connect(ctx context.Context, databaseURL string, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for i := 0; i < connectAttempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			log.Infow("Connected to PostgreSQL")
			return db, nil
		}

		log.Warnw("Failed to ping database, retrying", "error", err, "attempt", i+1, "interval", connectInterval)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(connectInterval):
		}
	}

	db.Close()
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", connectAttempts, err)
}
