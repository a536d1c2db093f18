// Package file writes analysis reports to a timestamped report directory.
//
// Layout for a run stamped 20250114_103000:
//
//	report_20250114_103000/
//	  json/
//	    report_20250114_103000_1.json    one file per record
//	    report_20250114_103000_2.json
//	    report_20250114_103000_full.json full mode only
//	  report_20250114_103000_summary.txt full mode only
//
// With a single record the json file is unnumbered.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/knersus/faultline/internal/model"
	"github.com/knersus/faultline/internal/output"
	"github.com/knersus/faultline/internal/summary"
)

// dirStampLayout names the report directory after the run's wall time.
const dirStampLayout = "20060102_150405"

// entryTimeout bounds how long a single record file write may take before
// it is abandoned and counted as failed.
const entryTimeout = 5 * time.Second

// Option configures a file Output.
type Option func(*Output)

// WithFullDetail enables the full-report and summary files alongside the
// per-record catalogue, and full annotations inside the per-record files.
func WithFullDetail(full bool) Option {
	return func(o *Output) { o.fullDetail = full }
}

// WithClock overrides the wall clock used for the directory stamp.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Output) { o.now = now }
}

// Output writes each report to its own report_<stamp> directory under the
// base directory.
type Output struct {
	baseDir    string
	fullDetail bool
	now        func() time.Time

	// failures counts per-record files that could not be written across the
	// lifetime of this output.
	failures int
}

// New creates a report directory output rooted at baseDir.
func New(baseDir string, opts ...Option) *Output {
	o := &Output{
		baseDir: baseDir,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Write renders the report into a fresh report_<stamp> directory. A record
// file that cannot be written is logged and counted but does not abort the
// remaining records; the report as a whole fails only when the directory
// itself cannot be created or every record write failed.
func (o *Output) Write(ctx context.Context, report *model.Report) error {
	stamp := o.now().Format(dirStampLayout)
	reportDir := filepath.Join(o.baseDir, "report_"+stamp)
	jsonDir := filepath.Join(reportDir, "json")
	if err := os.MkdirAll(jsonDir, 0o755); err != nil {
		return fmt.Errorf("report output: create %s: %w", jsonDir, err)
	}

	items := output.Items(report, o.fullDetail)
	written := 0
	for i, item := range items {
		if err := o.writeEntry(ctx, jsonDir, stamp, i, len(items), item); err != nil {
			o.failures++
			slog.Warn("record file write failed", "index", i+1, "error", err)
			continue
		}
		written++
	}
	if len(items) > 0 && written == 0 {
		return fmt.Errorf("report output: all %d record writes failed", len(items))
	}

	if o.fullDetail {
		if err := o.writeFull(jsonDir, stamp, report); err != nil {
			return err
		}
		if err := o.writeSummary(reportDir, stamp, report); err != nil {
			return err
		}
	}
	return nil
}

// Close reports accumulated record-write failures, if any.
func (o *Output) Close() error {
	if o.failures > 0 {
		return fmt.Errorf("report output: %d record write(s) failed", o.failures)
	}
	return nil
}

// Failures returns the number of record files that could not be written.
func (o *Output) Failures() int {
	return o.failures
}

func (o *Output) writeEntry(ctx context.Context, jsonDir, stamp string, index, total int, item model.CatalogueItem) error {
	ctx, cancel := context.WithTimeout(ctx, entryTimeout)
	defer cancel()

	name := fmt.Sprintf("report_%s.json", stamp)
	if total > 1 {
		name = fmt.Sprintf("report_%s_%d.json", stamp, index+1)
	}
	path := filepath.Join(jsonDir, name)

	done := make(chan error, 1)
	go func() {
		done <- writeJSON(path, item)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Output) writeFull(jsonDir, stamp string, report *model.Report) error {
	full := struct {
		*model.Report
		Errors []model.CatalogueItem `json:"errors"`
	}{
		Report: report,
		Errors: output.Items(report, true),
	}
	path := filepath.Join(jsonDir, fmt.Sprintf("report_%s_full.json", stamp))
	if err := writeJSON(path, full); err != nil {
		return fmt.Errorf("report output: full report: %w", err)
	}
	return nil
}

func (o *Output) writeSummary(reportDir, stamp string, report *model.Report) error {
	path := filepath.Join(reportDir, fmt.Sprintf("report_%s_summary.txt", stamp))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report output: summary: %w", err)
	}
	if err := summary.RenderText(f, report); err != nil {
		f.Close()
		return fmt.Errorf("report output: summary: %w", err)
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
