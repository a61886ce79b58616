package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of queued jobs.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithDropHandler sets a callback for jobs that leave the queue without
// reaching a consumer: jobs a Dequeue forwarder held when its ctx ended, and
// jobs removed by Drain.
func WithDropHandler(fn func(Job)) Option {
	return func(q *InMemoryQueue) {
		q.onDrop = fn
	}
}
