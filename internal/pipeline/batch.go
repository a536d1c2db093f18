package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/knersus/faultline/internal/model"
	"github.com/knersus/faultline/internal/source/file"
	"github.com/knersus/faultline/internal/source/scan"
)

// BatchResult is the outcome of a batch run over a capture directory.
type BatchResult struct {
	Reports []*model.Report

	// Failed maps capture paths to the error that kept them out of Reports.
	Failed map[string]error
}

// RunBatch discovers every capture log under baseDir and analyzes them with
// up to parallelism concurrent workers. A capture that fails to load or
// write is recorded in Failed and does not abort the rest of the batch.
// Reports are returned sorted by capture path regardless of completion
// order.
func (p *Pipeline) RunBatch(ctx context.Context, baseDir string, parallelism int) (*BatchResult, error) {
	paths, err := scan.Discover(baseDir)
	if err != nil {
		return nil, fmt.Errorf("pipeline batch: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("pipeline batch: no capture logs under %s", baseDir)
	}
	if parallelism < 1 {
		parallelism = 1
	}

	result := &BatchResult{Failed: make(map[string]error)}
	loader := &file.Source{}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			// A fault analyzing one capture must not take down the batch.
			defer func() {
				if r := recover(); r != nil {
					slog.Error("capture analysis panicked", "log", path, "panic", r)
					mu.Lock()
					result.Failed[path] = fmt.Errorf("analysis panicked: %v", r)
					mu.Unlock()
				}
			}()

			captures, err := loader.Resolve(ctx, path)
			if err != nil {
				slog.Warn("capture skipped", "log", path, "error", err)
				mu.Lock()
				result.Failed[path] = err
				mu.Unlock()
				return nil
			}
			report := p.Analyze(captures[0])
			if err := p.output.Write(ctx, report); err != nil {
				slog.Warn("capture report not written", "log", path, "error", err)
				mu.Lock()
				result.Failed[path] = err
				mu.Unlock()
				return nil
			}
			mu.Lock()
			result.Reports = append(result.Reports, report)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("pipeline batch: %w", err)
	}

	sort.Slice(result.Reports, func(i, j int) bool {
		return result.Reports[i].LogPath < result.Reports[j].LogPath
	})
	return result, nil
}
