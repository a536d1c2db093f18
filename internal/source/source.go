// Package source resolves capture inputs. A Source turns a path into the
// capture logs to analyze; providers register themselves by name so the CLI
// and pipeline can select one without importing it directly.
package source

import (
	"context"
	"fmt"
)

// Capture is one stress-test log ready for analysis.
type Capture struct {
	// LogPath is the path the text was loaded from.
	LogPath string

	// LogcatDir is the sibling logcat capture directory for the same run,
	// empty when none was found.
	LogcatDir string

	// Text is the full log content, sanitized to valid UTF-8.
	Text string
}

// Source resolves a path into the captures it contains.
type Source interface {
	// Resolve returns the captures under path. A file source returns exactly
	// one; a directory scanner may return many.
	Resolve(ctx context.Context, path string) ([]Capture, error)
}

// Constructor creates a new Source instance.
type Constructor func() Source

var registry = map[string]Constructor{}

// Register adds a source constructor under the given provider name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the source constructor for the given provider name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown source provider: %s", name)
	}
	return ctor, nil
}

// Providers returns the names of all registered source providers.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
