package faultline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/knersus/faultline/internal/engine"
	"github.com/knersus/faultline/internal/model"
	"github.com/knersus/faultline/internal/source/file"
	"github.com/knersus/faultline/internal/summary"
)

// Analyzer analyzes monkey stress-test capture logs.
// Safe for concurrent use.
type Analyzer struct {
	engine *engine.Engine
	now    func() time.Time
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	engOpts := []engine.Option{
		engine.WithCorrelation(o.correlate),
		engine.WithClock(o.now),
	}
	if len(o.noisePatterns) > 0 {
		engOpts = append(engOpts, engine.WithNoisePatterns(o.noisePatterns...))
	}
	return &Analyzer{
		engine: engine.New(engOpts...),
		now:    o.now,
	}
}

// Analyze runs the full pipeline over log text already in memory.
func (a *Analyzer) Analyze(text string) Report {
	return a.analyze(text, "", "")
}

// AnalyzeFile loads the capture log at path and analyzes it. When the log
// lives in a monkey_logs_* capture directory, the sibling logcat directory
// is recorded on the report.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (Report, error) {
	src := &file.Source{}
	captures, err := src.Resolve(ctx, path)
	if err != nil {
		return Report{}, fmt.Errorf("faultline: %w", err)
	}
	c := captures[0]
	return a.analyze(c.Text, c.LogPath, c.LogcatDir), nil
}

func (a *Analyzer) analyze(text, logPath, logcatDir string) Report {
	result := a.engine.Analyze(text)
	internal := &model.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: a.now(),
		LogPath:     logPath,
		LogcatDir:   logcatDir,
		Records:     result.Records,
		Environment: result.Environment,
		TestSummary: result.TestSummary,
		Correlated:  result.Correlated,
	}
	internal.Summary = summary.Build(result.Records, result.Environment)
	return reportFromInternal(internal)
}
