package posterctl

import (
	"fmt"
	"io"

	"github.com/okian/posterboard/pkg/logger"
)

// SetupLogging sends logs to w, at debug level when verbose.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `posterctl
=========

Lays out a pasted workshop schedule into days and two balanced poster columns.

Usage:
  posterctl [options]

Options:
  -in string
        Schedule file to read ("-" or empty reads stdin)
  -sample string
        Use a built-in sample instead of -in (two-days, three-days, day-per-line)
  -url string
        Lay out through a running service at this base URL instead of locally
  -format string
        Output format: json, yaml or text (default "text")
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Enable debug logging on stderr
  -help
        Show this help message

Examples:
  # Lay out a file locally
  posterctl -in schedule.txt

  # Try a built-in sample as YAML
  posterctl -sample three-days -format yaml

  # Ask a running service
  pbpaste | posterctl -url http://localhost:9080 -format json
`)
}
