// Package repository keeps layout jobs and their results in memory.
package repository

import (
	"context"
	"sync"

	"github.com/okian/posterboard/internal/domain/model"
	"github.com/okian/posterboard/pkg/metrics"
)

// Store provides read/write access to submitted jobs.
type Store interface {
	// Put records a newly submitted job. Returns ErrDuplicate if the id is taken.
	Put(ctx context.Context, job model.Job) error
	// Complete replaces a job with its finished version.
	Complete(ctx context.Context, job model.Job) error
	// Get returns a job by id. Returns ErrNotFound if it is unknown or evicted.
	Get(ctx context.Context, id string) (model.Job, error)
	// Delete forgets a job. Used when a submitted job could not be queued or
	// was discarded before a worker processed it.
	Delete(ctx context.Context, id string)
	// Count returns the number of retained jobs.
	Count(ctx context.Context) int
}

// node is an entry in the insertion-ordered list. head is the newest job.
type node struct {
	job        model.Job
	prev, next *node
}

func (n *node) reset() {
	*n = node{}
}

// JobStore is a bounded in-memory Store that evicts the oldest job first.
type JobStore struct {
	mu        sync.RWMutex
	jobs      map[string]*node
	head      *node
	tail      *node
	retention int
	nodePool  sync.Pool
}

var _ Store = (*JobStore)(nil)

// NewJobStore creates an empty job store.
func NewJobStore(opts ...Option) *JobStore {
	s := &JobStore{retention: DefaultRetention}
	for _, opt := range opts {
		opt(s)
	}
	s.jobs = make(map[string]*node)
	s.nodePool = sync.Pool{
		New: func() any { return &node{} },
	}
	return s
}

// Put records a new job.
func (s *JobStore) Put(_ context.Context, job model.Job) error { //nolint:gocritic // hugeParam: jobs are stored by value
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return ErrDuplicate
	}
	s.insert(job)
	return nil
}

// Complete stores the finished job in place. A job evicted while it was being
// processed is inserted again as the newest entry.
func (s *JobStore) Complete(_ context.Context, job model.Job) error { //nolint:gocritic // hugeParam: jobs are stored by value
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, exists := s.jobs[job.ID]; exists {
		n.job = job
		return nil
	}
	s.insert(job)
	return nil
}

// Get returns a copy of the job.
func (s *JobStore) Get(_ context.Context, id string) (model.Job, error) {
	s.mu.RLock()
	n, exists := s.jobs[id]
	var job model.Job
	if exists {
		job = n.job
	}
	s.mu.RUnlock()

	if !exists {
		metrics.RecordStoreMiss()
		return model.Job{}, ErrNotFound
	}
	return job, nil
}

// Delete removes a job if present.
func (s *JobStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.jobs[id]
	if !exists {
		return
	}
	s.unlink(n)
	delete(s.jobs, id)
	n.reset()
	s.nodePool.Put(n)
	metrics.UpdateStoredJobs(len(s.jobs))
}

// Count returns the number of retained jobs.
func (s *JobStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// insert adds job at the head. Must be called with s.mu held.
func (s *JobStore) insert(job model.Job) { //nolint:gocritic // hugeParam: jobs are stored by value
	if s.retention > 0 {
		for len(s.jobs) >= s.retention {
			s.evictOldest()
		}
	}

	n, _ := s.nodePool.Get().(*node)
	if n == nil {
		n = &node{}
	}
	n.job = job
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
	s.jobs[job.ID] = n
	metrics.UpdateStoredJobs(len(s.jobs))
}

// evictOldest removes the tail of the list. Must be called with s.mu held.
func (s *JobStore) evictOldest() {
	n := s.tail
	if n == nil {
		return
	}
	s.unlink(n)
	delete(s.jobs, n.job.ID)
	n.reset()
	s.nodePool.Put(n)
	metrics.RecordStoreEviction()
	metrics.UpdateStoredJobs(len(s.jobs))
}

// unlink detaches n from the list. Must be called with s.mu held.
func (s *JobStore) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
