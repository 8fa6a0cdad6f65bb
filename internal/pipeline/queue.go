package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/beacon/backend/internal/metrics"
)

var (
	ErrQueueFull   = errors.New("pipeline queue is full")
	ErrQueueClosed = errors.New("pipeline queue is closed")
)

// Runner executes one pipeline task.
type Runner interface {
	Run(ctx context.Context, task Task) error
}

// Queue is a bounded task channel drained by a fixed set of workers. Enqueue
// never blocks the request path.
type Queue struct {
	runner  Runner
	logger  zerolog.Logger
	metrics *metrics.Collector

	mu     sync.RWMutex
	closed bool
	tasks  chan Task
	wg     sync.WaitGroup

	// workers run on their own context so a finished request never cancels
	// its pipeline; Shutdown cancels it once the drain deadline passes.
	ctx    context.Context
	cancel context.CancelFunc

	depth atomic.Int64
}

func NewQueue(workers, size int, runner Runner, logger zerolog.Logger, m *metrics.Collector) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		runner:  runner,
		logger:  logger.With().Str("component", "pipeline_queue").Logger(),
		metrics: m,
		tasks:   make(chan Task, size),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue schedules task and returns immediately. It fails with ErrQueueFull
// when the buffer is saturated and ErrQueueClosed after Shutdown.
func (q *Queue) Enqueue(task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.metrics.QueueTask(string(task.Kind), "rejected")
		return ErrQueueClosed
	}
	select {
	case q.tasks <- task:
		q.metrics.QueueDepth(int(q.depth.Add(1)))
		q.metrics.QueueTask(string(task.Kind), "enqueued")
		return nil
	default:
		q.metrics.QueueTask(string(task.Kind), "rejected")
		return ErrQueueFull
	}
}

// Depth is the number of tasks waiting for a worker.
func (q *Queue) Depth() int {
	return int(q.depth.Load())
}

// Shutdown stops accepting tasks and waits for queued and running tasks to
// finish. When ctx expires first, in-flight runs are cancelled and the
// remaining tasks are dropped.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return fmt.Errorf("pipeline drain: %w", ctx.Err())
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for task := range q.tasks {
		q.metrics.QueueDepth(int(q.depth.Add(-1)))
		if q.ctx.Err() != nil {
			q.metrics.QueueTask(string(task.Kind), "dropped")
			q.logger.Warn().Str("pipeline", string(task.Kind)).Str("subject_id", task.ID).Msg("dropping task after drain deadline")
			continue
		}
		q.run(task)
	}
}

func (q *Queue) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			q.metrics.QueueTask(string(task.Kind), "panicked")
			q.logger.Error().Interface("panic", r).Str("pipeline", string(task.Kind)).Str("subject_id", task.ID).Msg("pipeline task panicked")
		}
	}()

	if err := q.runner.Run(q.ctx, task); err != nil {
		q.metrics.QueueTask(string(task.Kind), "failed")
		return
	}
	q.metrics.QueueTask(string(task.Kind), "completed")
}
