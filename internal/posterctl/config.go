// Package posterctl implements the posterctl command: it lays out a schedule
// file locally or through a running service and prints the result.
package posterctl

import (
	"fmt"
	"strings"
	"time"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Config holds the options of one posterctl run.
type Config struct {
	Input   string        // schedule file; empty or "-" reads stdin
	Sample  string        // canned input name, instead of Input
	BaseURL string        // service URL; empty lays out locally
	Format  string        // json, yaml or text
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // debug logging
}

// Validate reports the first invalid option.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Format) {
	case FormatJSON, FormatYAML, FormatText:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}
	if c.Sample != "" && c.Input != "" && c.Input != "-" {
		return ErrConflictingInput
	}
	return nil
}
