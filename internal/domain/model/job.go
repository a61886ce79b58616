package model

import "time"

// LineStats counts how the input lines of a single parse were classified.
type LineStats struct {
	Lines    int `json:"lines" yaml:"lines"`       // non-blank lines seen
	Combined int `json:"combined" yaml:"combined"` // "1 Mon\t13.00-14.00 Yoga"
	DayOnly  int `json:"day_only" yaml:"day_only"` // "1 Mon"
	TimeOnly int `json:"time_only" yaml:"time_only"`
	Orphaned int `json:"orphaned" yaml:"orphaned"` // time-only lines with no day above them
	Dropped  int `json:"dropped" yaml:"dropped"`   // lines matching no pattern
}

// Layout is everything the presentation layer needs to draw and export a
// poster for one pasted input.
type Layout struct {
	Schedule Schedule         `json:"schedule" yaml:"schedule"`
	Columns  ColumnAssignment `json:"columns" yaml:"columns"`
	FileName string           `json:"file_name" yaml:"file_name"`
	Stats    LineStats        `json:"stats" yaml:"stats"`
}

// JobStatus is the lifecycle state of an asynchronous layout job.
type JobStatus string

// Job states.
const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
)

// Job is a layout request processed by the worker pool.
type Job struct {
	ID          string    `json:"id"`
	Text        string    `json:"-"`
	Status      JobStatus `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	Layout      *Layout   `json:"layout,omitempty"`
}
