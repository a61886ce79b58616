// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, then an optional YAML file named
// by POSTER_CONFIG, then POSTER_* environment variables.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects log output: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxInputBytes caps the size of pasted schedule text.
	MaxInputBytes int `koanf:"max_input_bytes"`

	// QueueSize bounds the in-memory layout job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of layout workers.
	WorkerCount int `koanf:"worker_count"`

	// JobRetention is how many finished or pending jobs are kept for lookup.
	JobRetention int `koanf:"job_retention"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		MaxInputBytes: 64 << 10,
		QueueSize:     1024,
		WorkerCount:   runtime.NumCPU(),
		JobRetention:  10_000,
	}
}
