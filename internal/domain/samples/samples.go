// Package samples holds canned schedule inputs, one per supported input
// layout, for trying the service without pasting anything.
package samples

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// ErrUnknownSample is returned by Get for names not in Names.
var ErrUnknownSample = errors.New("unknown sample")

//go:embed data/*.txt
var dataFS embed.FS

const ext = ".txt"

// Names lists the available samples in sorted order.
func Names() []string {
	entries, err := fs.ReadDir(dataFS, "data")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names
}

// Get returns the text of a sample.
func Get(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSample, name)
	}
	b, err := dataFS.ReadFile(path.Join("data", name+ext))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownSample, name)
	}
	return string(b), nil
}
