package repository

// DefaultRetention is the number of jobs kept when no retention is set.
const DefaultRetention = 10_000

// Option applies a configuration option to the JobStore.
type Option func(*JobStore)

// WithRetention sets the maximum number of jobs kept in memory.
// When the store is full the oldest job is evicted.
// A retention of zero or less keeps every job.
func WithRetention(n int) Option {
	return func(s *JobStore) {
		s.retention = n
	}
}
