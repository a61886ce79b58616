package posterctl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/okian/posterboard/internal/domain/model"
	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// writeLayout renders layout to w in the given format.
func writeLayout(w io.Writer, format string, layout model.Layout) error { //nolint:gocritic // hugeParam: read-only
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(layout); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(yamlIndent)
		if err := enc.Encode(layout); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	case FormatText:
		return writeText(w, layout)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

// writeText prints both columns with their days and workshops.
func writeText(w io.Writer, layout model.Layout) error { //nolint:gocritic // hugeParam: read-only
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", layout.FileName)
	if layout.Schedule.Len() == 0 {
		b.WriteString("(no days)\n")
	}
	writeColumn(&b, "left", layout.Columns.Left, layout.Schedule)
	writeColumn(&b, "right", layout.Columns.Right, layout.Schedule)
	if s := layout.Stats; s.Dropped > 0 || s.Orphaned > 0 {
		fmt.Fprintf(&b, "ignored: %d unrecognised, %d without a day\n", s.Dropped, s.Orphaned)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeColumn(b *strings.Builder, name string, keys []model.DayKey, s model.Schedule) { //nolint:gocritic // hugeParam: read-only
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(b, "[%s]\n", name)
	for _, key := range keys {
		events := s.Events(key)
		fmt.Fprintf(b, "  %s (%d)\n", key, len(events))
		for _, e := range events {
			fmt.Fprintf(b, "    %-12s %s\n", e.Time, e.Title)
		}
	}
}
