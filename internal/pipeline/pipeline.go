// Package pipeline connects a capture source, the analysis engine, and
// report outputs into a run, and drives batch runs over many captures.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/knersus/faultline/internal/engine"
	"github.com/knersus/faultline/internal/model"
	"github.com/knersus/faultline/internal/output"
	"github.com/knersus/faultline/internal/source"
	"github.com/knersus/faultline/internal/summary"
)

// Pipeline runs captures through the engine and delivers reports to an
// output. Each Run owns its report exclusively; a Pipeline is safe for
// concurrent Run calls as long as the output is.
type Pipeline struct {
	source source.Source
	engine *engine.Engine
	output output.Output
	now    func() time.Time
}

// New creates a Pipeline from the given components.
func New(src source.Source, eng *engine.Engine, out output.Output) *Pipeline {
	return &Pipeline{
		source: src,
		engine: eng,
		output: out,
		now:    time.Now,
	}
}

// Run resolves path into captures, analyzes each, and writes the resulting
// reports. It returns the reports in capture order.
func (p *Pipeline) Run(ctx context.Context, path string) ([]*model.Report, error) {
	captures, err := p.source.Resolve(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("pipeline resolve: %w", err)
	}

	reports := make([]*model.Report, 0, len(captures))
	for _, capture := range captures {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report := p.Analyze(capture)
		if err := p.output.Write(ctx, report); err != nil {
			return reports, fmt.Errorf("pipeline output: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Analyze runs the engine over one capture and assembles its report.
func (p *Pipeline) Analyze(capture source.Capture) *model.Report {
	result := p.engine.Analyze(capture.Text)
	report := &model.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: p.now(),
		LogPath:     capture.LogPath,
		LogcatDir:   capture.LogcatDir,
		Records:     result.Records,
		Environment: result.Environment,
		TestSummary: result.TestSummary,
		Correlated:  result.Correlated,
	}
	report.Summary = summary.Build(result.Records, result.Environment)

	slog.Info("capture analyzed",
		"runId", report.RunID,
		"log", capture.LogPath,
		"errors", len(result.Records),
		"stability", report.Summary.StabilityScore)
	return report
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
