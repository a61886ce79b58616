package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/posterboard/internal/posterctl"
)

const (
	defaultTimeout = 10 * time.Second
	runTimeout     = time.Minute
)

func main() {
	var (
		in      = flag.String("in", "", `Schedule file ("-" or empty reads stdin)`)
		sample  = flag.String("sample", "", "Built-in sample to use instead of -in")
		baseURL = flag.String("url", "", "Base URL of a running service; empty lays out locally")
		format  = flag.String("format", posterctl.FormatText, "Output format: json, yaml or text")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		posterctl.ShowHelp(os.Stdout)
		return
	}

	if err := posterctl.SetupLogging(os.Stderr, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to setup logging:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := &posterctl.Config{
		Input:   *in,
		Sample:  *sample,
		BaseURL: *baseURL,
		Format:  *format,
		Timeout: *timeout,
		Verbose: *verbose,
	}
	if err := posterctl.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "posterctl:", err)
		os.Exit(1)
	}
}
