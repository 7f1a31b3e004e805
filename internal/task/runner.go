package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrAlreadyInFlight is returned by Submit when a background task for
// the same board entity is already queued or running. Enrichment is
// idempotent per entity, so a duplicate request is dropped rather than
// queued behind the first.
var ErrAlreadyInFlight = errors.New("task for entity already in flight")

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Runner manages background task processing. It combines a bounded
// queue with a worker pool and guarantees at most one in-flight task
// per board entity.
type Runner struct {
	queue  *Queue
	pool   *WorkerPool
	logger *slog.Logger

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewRunner creates a new Runner with the given configuration.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}

	log := logger.With("component", "task_runner")
	queue := NewQueue(config.QueueSize, log)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, log)

	r := &Runner{
		queue:    queue,
		pool:     pool,
		logger:   log,
		inFlight: make(map[uuid.UUID]struct{}),
	}

	pool.SetDoneHandler(r.release)

	return r
}

// SetErrorHandler allows setting a custom handler for task execution failures.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Submit adds a new task to the queue. It returns ErrAlreadyInFlight
// when a task for the same entity is already queued or running, and an
// error when the queue is full or closed.
func (r *Runner) Submit(ctx context.Context, t Task) error {
	r.mu.Lock()
	if _, exists := r.inFlight[t.EntityID()]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyInFlight, t.EntityID())
	}
	r.inFlight[t.EntityID()] = struct{}{}
	r.mu.Unlock()

	if err := r.queue.Enqueue(t); err != nil {
		r.release(t)
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	r.logger.Debug("task submitted",
		"task_id", t.ID(),
		"task_type", t.Type(),
		"entity_id", t.EntityID())

	return nil
}

// Start launches the worker pool and begins processing tasks.
func (r *Runner) Start() {
	r.pool.Start()
}

// Stop gracefully shuts down the runner. In-flight tasks are allowed
// to finish; queued tasks that never started are dropped.
func (r *Runner) Stop() {
	r.queue.Close()
	r.pool.Stop()
}

func (r *Runner) release(t Task) {
	r.mu.Lock()
	delete(r.inFlight, t.EntityID())
	r.mu.Unlock()
}
