package service

import "errors"

// Sentinel kinds returned by Service.
var (
	ErrInputTooLarge = errors.New("input too large")
	ErrBackpressure  = errors.New("job queue is full")
	ErrNotStarted    = errors.New("service not started")
	ErrJobNotFound   = errors.New("job not found")
)
