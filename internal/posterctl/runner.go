package posterctl

import (
	"context"
	"fmt"
	"io"
	"os"

	service "github.com/okian/posterboard/internal/app"
	"github.com/okian/posterboard/internal/domain/model"
	"github.com/okian/posterboard/internal/domain/samples"
	"github.com/okian/posterboard/pkg/logger"
)

// Run reads the schedule named by cfg, lays it out and writes it to stdout.
func Run(ctx context.Context, cfg *Config, stdin io.Reader, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.Get().Named("posterctl")

	text, err := readInput(cfg, stdin)
	if err != nil {
		return err
	}
	log.Debug(ctx, "read schedule", logger.Int("bytes", len(text)), logger.String("sample", cfg.Sample))

	var layout model.Layout
	if cfg.BaseURL != "" {
		log.Debug(ctx, "laying out remotely", logger.String("baseURL", cfg.BaseURL))
		layout, err = remoteLayout(ctx, cfg, text)
	} else {
		layout, err = service.New(service.WithLogger(log)).Layout(ctx, text)
	}
	if err != nil {
		return fmt.Errorf("layout failed: %w", err)
	}

	log.Debug(ctx, "layout ready",
		logger.Int("days", layout.Schedule.Len()),
		logger.Int("workshops", layout.Schedule.TotalEvents()),
		logger.String("file", layout.FileName),
	)
	return writeLayout(stdout, cfg.Format, layout)
}

func readInput(cfg *Config, stdin io.Reader) (string, error) {
	if cfg.Sample != "" {
		return samples.Get(cfg.Sample)
	}
	if cfg.Input == "" || cfg.Input == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(cfg.Input)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", cfg.Input, err)
	}
	return string(b), nil
}
