// Package worker runs layout jobs taken off the queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/posterboard/internal/adapters/mq/queue"
	"github.com/okian/posterboard/internal/domain/model"
	"github.com/okian/posterboard/pkg/logger"
	"github.com/okian/posterboard/pkg/metrics"
)

// Planner computes the layout for pasted text.
type Planner interface {
	Plan(ctx context.Context, text string) (model.Layout, error)
}

// Recorder stores a finished job.
type Recorder interface {
	Complete(ctx context.Context, job model.Job) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// InMemoryWorker processes jobs from a queue until the queue closes or it is
// shut down.
type InMemoryWorker struct {
	queue    Queue
	planner  Planner
	recorder Recorder

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
	now    func() time.Time
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, planner Planner, recorder Recorder, opts ...Option) *InMemoryWorker {
	s := newSettings("worker", opts)
	return &InMemoryWorker{
		queue:    q,
		planner:  planner,
		recorder: recorder,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   s.logger,
		now:      time.Now,
	}
}

// Run starts the worker loop. It returns when the queue is drained and
// closed, ctx is done, or Shutdown is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				w.logger.Error(ctx, "error processing job", logger.String("job_id", j.ID), logger.Error(err))
			}
		}
	}
}

// Done is closed when Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Shutdown stops the worker without waiting for the queue to drain.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j model.Job) error { //nolint:gocritic // hugeParam: jobs travel by value
	metrics.WorkerBusy(1)
	defer metrics.WorkerBusy(-1)

	layout, err := w.planner.Plan(ctx, j.Text)
	if err != nil {
		return fmt.Errorf("plan job %s: %w", j.ID, err)
	}

	j.Layout = &layout
	j.Status = model.JobDone
	j.CompletedAt = w.now()
	if err := w.recorder.Complete(ctx, j); err != nil {
		return fmt.Errorf("record job %s: %w", j.ID, err)
	}

	metrics.RecordJobCompleted(float64(j.CompletedAt.Sub(j.SubmittedAt).Microseconds()) / 1e3)
	w.logger.Debug(ctx, "job completed",
		logger.String("job_id", j.ID),
		logger.Int("days", layout.Schedule.Len()),
		logger.Int("workshops", layout.Schedule.TotalEvents()),
	)
	return nil
}

// Pool manages several workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	closer  interface{ Close() error }
	logger  logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// stopGrace bounds the wait for workers after their context is cancelled.
const stopGrace = time.Second

// NewPool creates a pool of workerCount workers. A count below one uses the
// number of CPUs.
func NewPool(workerCount int, q Queue, planner Planner, recorder Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	s := newSettings("worker-pool", opts)

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  s.logger,
	}
	if c, ok := q.(interface{ Close() error }); ok {
		p.closer = c
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, planner, recorder,
			WithLogger(s.logger),
			WithName("worker-"+strconv.Itoa(i)),
		)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start runs every worker in its own goroutine. The workers and their queue
// readers share a context that Shutdown cancels.
func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for workers to drain it. When ctx is
// done first, the shared worker context is cancelled so every worker and
// queue reader exits, and ctx.Err() is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	if p.closer != nil {
		if err := p.closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	var err error
wait:
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			err = ctx.Err()
			break wait
		}
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	if err == nil {
		return nil
	}
	grace := time.NewTimer(stopGrace)
	defer grace.Stop()
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-grace.C:
			p.logger.Warn(ctx, "worker did not stop", logger.Int("worker_id", i))
			return err
		}
	}
	return err
}
