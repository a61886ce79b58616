// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/posterboard/internal/adapters/mq/queue"
	workerpool "github.com/okian/posterboard/internal/adapters/mq/worker"
	repository "github.com/okian/posterboard/internal/adapters/repository"
	"github.com/okian/posterboard/internal/domain/columns"
	"github.com/okian/posterboard/internal/domain/export"
	"github.com/okian/posterboard/internal/domain/model"
	"github.com/okian/posterboard/internal/domain/parser"
	"github.com/okian/posterboard/internal/domain/samples"
	"github.com/okian/posterboard/pkg/logger"
	"github.com/okian/posterboard/pkg/metrics"
)

const (
	defaultMaxInputBytes = 64 << 10
	defaultQueueSize     = 1024
	stopTimeout          = 5 * time.Second
	excerptLines         = 3
)

// planAdapter lets the worker pool compute layouts through the service.
type planAdapter struct {
	s      *Service
	logger logger.Logger
}

func (a *planAdapter) Plan(ctx context.Context, text string) (model.Layout, error) {
	return a.s.plan(ctx, a.logger, text), nil
}

// Service lays out pasted schedules, synchronously or as queued jobs.
type Service struct {
	mu sync.RWMutex

	// Core components
	jobs       repository.Store
	jobQueue   *jobqueue.InMemoryQueue
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	jobRetention  int
	maxInputBytes int

	// State
	started bool

	logger logger.Logger
	now    func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of layout workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued layout jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithJobRetention sets how many jobs are kept for lookup.
// Zero or less keeps every job.
func WithJobRetention(n int) Option {
	return func(s *Service) {
		s.jobRetention = n
	}
}

// WithMaxInputBytes caps the size of accepted schedule text.
func WithMaxInputBytes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxInputBytes = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     defaultQueueSize,
		jobRetention:  repository.DefaultRetention,
		maxInputBytes: defaultMaxInputBytes,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the job queue, result store and worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting layout service...")

	s.jobs = repository.NewJobStore(repository.WithRetention(s.jobRetention))
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithDropHandler(forgetJob(s.jobs, s.logger)),
	)
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, &planAdapter{s: s, logger: s.logger}, s.jobs,
		workerpool.WithLogger(s.logger),
	)
	// Workers outlive the start request; Stop ends them.
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "layout service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("jobRetention", s.jobRetention),
		logger.Int("maxInputBytes", s.maxInputBytes),
	)
	return nil
}

// Stop drains queued jobs and shuts the workers down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping layout service...")
	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
		}
	}
	if s.jobQueue != nil {
		if n := s.jobQueue.Drain(); n > 0 {
			s.logger.Warn(ctx, "discarded unprocessed jobs", logger.Int("count", n))
		}
	}

	s.started = false
	s.logger.Info(ctx, "layout service stopped")
}

// forgetJob removes a job that left the queue without being processed, so
// it is not reported as pending forever. It must not take s.mu: Stop holds
// it while the pool winds down.
func forgetJob(store repository.Store, l logger.Logger) func(jobqueue.Job) {
	return func(j jobqueue.Job) { //nolint:gocritic // hugeParam: jobs travel by value
		ctx := context.Background()
		store.Delete(ctx, j.ID)
		l.Debug(ctx, "forgot unprocessed job", logger.String("job_id", j.ID))
	}
}

// Layout parses text and balances its days into two columns.
func (s *Service) Layout(ctx context.Context, text string) (model.Layout, error) {
	if err := s.checkSize(text); err != nil {
		return model.Layout{}, err
	}
	return s.plan(ctx, s.log(), text), nil
}

// Submit queues text for asynchronous layout and returns the job id.
func (s *Service) Submit(ctx context.Context, text string) (string, error) {
	if err := s.checkSize(text); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return "", ErrNotStarted
	}

	job := model.Job{
		ID:          uuid.NewString(),
		Text:        text,
		Status:      model.JobPending,
		SubmittedAt: s.now(),
	}
	if err := s.jobs.Put(ctx, job); err != nil {
		return "", fmt.Errorf("store job: %w", err)
	}

	if err := s.jobQueue.Enqueue(ctx, job); err != nil {
		s.jobs.Delete(ctx, job.ID)
		if errors.Is(err, jobqueue.ErrFull) {
			metrics.RecordJobRejected("backpressure")
			s.logger.Warn(ctx, "job queue full, rejecting job", logger.Int("queueLength", s.jobQueue.Len(ctx)))
			return "", ErrBackpressure
		}
		if errors.Is(err, jobqueue.ErrClosed) {
			metrics.RecordJobRejected("closed")
			return "", ErrNotStarted
		}
		return "", fmt.Errorf("enqueue job: %w", err)
	}

	metrics.RecordJobSubmitted()
	s.logger.Debug(ctx, "job submitted", logger.String("job_id", job.ID))
	return job.ID, nil
}

// Job returns a submitted job by id.
func (s *Service) Job(ctx context.Context, id string) (model.Job, error) {
	s.mu.RLock()
	jobs := s.jobs
	s.mu.RUnlock()

	if jobs == nil {
		return model.Job{}, ErrJobNotFound
	}
	job, err := jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Job{}, ErrJobNotFound
		}
		return model.Job{}, err
	}
	return job, nil
}

// SampleNames lists the canned inputs.
func (s *Service) SampleNames() []string {
	return samples.Names()
}

// Sample returns a canned input by name.
func (s *Service) Sample(name string) (string, error) {
	return samples.Get(name)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"jobRetention":  s.jobRetention,
		"maxInputBytes": s.maxInputBytes,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		stored := s.jobs.Count(ctx)

		stats["queueLength"] = queueLen
		stats["storedJobs"] = stored

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoredJobs(stored)
		metrics.UpdateWorkerCount(s.workerPool.Size())
	}
	return stats
}

func (s *Service) checkSize(text string) error {
	if len(text) > s.maxInputBytes {
		metrics.RecordInputRejected()
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(text), s.maxInputBytes)
	}
	return nil
}

// plan runs parse, balance and export naming for one input.
// It must not take s.mu: workers call it while Stop holds the lock.
func (s *Service) plan(ctx context.Context, l logger.Logger, text string) model.Layout {
	start := s.now()

	schedule, stats := parser.ParseWithStats(text)
	counts := schedule.Counts()
	cols := columns.Balance(schedule.Order, counts)
	layout := model.Layout{
		Schedule: schedule,
		Columns:  cols,
		FileName: export.FileName(schedule.Order),
		Stats:    stats,
	}

	imbalance := columns.Imbalance(cols, counts)
	metrics.RecordLayout(schedule.Len(), schedule.TotalEvents(), imbalance,
		float64(s.now().Sub(start).Microseconds())/1e3)
	metrics.RecordLines("combined", stats.Combined)
	metrics.RecordLines("day", stats.DayOnly)
	metrics.RecordLines("time", stats.TimeOnly)
	metrics.RecordLines("orphaned", stats.Orphaned)
	metrics.RecordLines("dropped", stats.Dropped)

	if l != nil && (stats.Dropped > 0 || stats.Orphaned > 0) {
		l.Debug(ctx, "ignored schedule lines",
			logger.Int("dropped", stats.Dropped),
			logger.Int("orphaned", stats.Orphaned),
			logger.String("input", parser.Excerpt(text, excerptLines)),
		)
	}
	return layout
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logger
}
