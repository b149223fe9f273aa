package search

import (
	"context"
	"fmt"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/circuitbreaker"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/config"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/metrics"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/workerpool"
)

// UserIndexer writes one user into the search index.
type UserIndexer interface {
	IndexUser(ctx context.Context, user models.User) error
}

// Mirror applies the best-effort policy for copying users into the index.
//
//	sync   index inline, the caller sees (and logs) the failure
//	async  hand off to a worker pool, failures are logged by the worker
//	off    do nothing
//
// Every attempt goes through a circuit breaker so an unreachable cluster
// is skipped immediately instead of slowing each request.
type Mirror struct {
	mode    string
	indexer UserIndexer
	breaker *circuitbreaker.Wrapper
	pool    *workerpool.Pool
	log     logger.Logger
}

// NewMirror builds a mirror for mode. pool is required in async mode and
// ignored otherwise.
func NewMirror(mode string, indexer UserIndexer, breaker *circuitbreaker.Wrapper, pool *workerpool.Pool, log logger.Logger) (*Mirror, error) {
	switch mode {
	case config.MirrorSync, config.MirrorOff:
	case config.MirrorAsync:
		if pool == nil {
			return nil, fmt.Errorf("async mirror requires a worker pool")
		}
	default:
		return nil, fmt.Errorf("unknown mirror mode %q", mode)
	}

	return &Mirror{mode: mode, indexer: indexer, breaker: breaker, pool: pool, log: log}, nil
}

func (m *Mirror) Mode() string {
	return m.mode
}

// IndexUser mirrors user according to the configured mode. In async mode
// the returned error only reports whether the task could be queued.
func (m *Mirror) IndexUser(ctx context.Context, user models.User) error {
	switch m.mode {
	case config.MirrorOff:
		metrics.IncSearchMirror(m.mode, "skipped")
		return nil
	case config.MirrorAsync:
		err := m.pool.Enqueue(ctx, func(taskCtx context.Context) {
			if err := m.index(taskCtx, user); err != nil {
				m.log.WarnwCtx(taskCtx, "Async user mirror failed", "user_id", user.ID, "error", err)
			}
		})
		if err != nil {
			metrics.IncSearchMirror(m.mode, "dropped")
		}
		return err
	default:
		return m.index(ctx, user)
	}
}

// Close waits for queued mirror tasks to finish.
func (m *Mirror) Close(ctx context.Context) error {
	if m.pool == nil {
		return nil
	}
	return m.pool.Stop(ctx)
}

func (m *Mirror) index(ctx context.Context, user models.User) error {
	call := m.indexer.IndexUser
	if m.breaker != nil {
		call = func(ctx context.Context, user models.User) error {
			return m.breaker.Execute(ctx, func(ctx context.Context) error {
				return m.indexer.IndexUser(ctx, user)
			})
		}
	}

	if err := call(ctx, user); err != nil {
		metrics.IncSearchMirror(m.mode, "failure")
		return err
	}
	metrics.IncSearchMirror(m.mode, "success")
	return nil
}
