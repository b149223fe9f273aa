package workerpool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/metrics"
)

var (
	ErrStopped   = errors.New("worker pool is stopped")
	ErrQueueFull = errors.New("worker pool queue is full")
)

// Task is a unit of work. The context passed to it is detached from the
// caller's cancellation but keeps its values.
type Task func(ctx context.Context)

type taskMessage struct {
	task Task
	ctx  context.Context
}

// Pool runs tasks on a fixed number of goroutines fed by a bounded queue.
// Enqueue never blocks: a full queue rejects the task.
type Pool struct {
	name string
	log  logger.Logger

	wg    sync.WaitGroup
	ch    chan taskMessage
	stopC chan struct{}

	mu      sync.RWMutex
	stopped bool
}

func New(name string, workers, queueSize int, log logger.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{
		name:  name,
		log:   log,
		ch:    make(chan taskMessage, queueSize),
		stopC: make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *Pool) Enqueue(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.ch <- taskMessage{task: task, ctx: context.WithoutCancel(ctx)}:
		metrics.WorkerPoolQueueSize.WithLabelValues(p.name).Inc()
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop rejects new tasks, runs everything already queued and waits for the
// workers to exit or ctx to expire.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.stopC)
	p.mu.Unlock()

	doneC := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(doneC)
	}()

	select {
	case <-doneC:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case msg := <-p.ch:
			p.run(msg)
		case <-p.stopC:
			for {
				select {
				case msg := <-p.ch:
					p.run(msg)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) run(msg taskMessage) {
	metrics.WorkerPoolQueueSize.WithLabelValues(p.name).Dec()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			metrics.WorkerPoolTasksTotal.WithLabelValues(p.name, "panic").Inc()
			p.log.ErrorwCtx(msg.ctx, "Worker pool task panicked", "pool", p.name, "panic", r)
			return
		}
		metrics.WorkerPoolTaskDuration.WithLabelValues(p.name).Observe(float64(time.Since(start).Milliseconds()))
		metrics.WorkerPoolTasksTotal.WithLabelValues(p.name, "success").Inc()
	}()

	msg.task(msg.ctx)
}
