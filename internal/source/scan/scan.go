// Package scan provides the batch capture source: it walks a base directory
// for monkey_logs_* capture folders and yields every log inside them.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knersus/faultline/internal/source"
	"github.com/knersus/faultline/internal/source/file"
)

func init() {
	source.Register("scan", func() source.Source {
		return &Source{}
	})
}

// Source discovers capture logs under a base directory.
type Source struct{}

// Resolve lists every *.log file inside monkey_logs_* subdirectories of
// path, sorted by path for deterministic batch order. Unreadable capture
// files fail the whole resolve; callers wanting per-file isolation load
// each capture individually from the returned paths.
func (s *Source) Resolve(ctx context.Context, path string) ([]source.Capture, error) {
	paths, err := Discover(path)
	if err != nil {
		return nil, err
	}
	loader := &file.Source{}
	captures := make([]source.Capture, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cs, err := loader.Resolve(ctx, p)
		if err != nil {
			return nil, err
		}
		captures = append(captures, cs...)
	}
	return captures, nil
}

// Discover returns the sorted paths of capture logs under base without
// loading them.
func Discover(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("scanning capture directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "monkey_logs_") {
			continue
		}
		dir := filepath.Join(base, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scanning capture directory: %w", err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".log") {
				continue
			}
			paths = append(paths, filepath.Join(dir, f.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
