// Package engine orchestrates the extraction pipeline: extract → noise
// filter → deduplicate → score → root-cause → optional chain correlation.
package engine

import (
	"time"

	"github.com/knersus/faultline/internal/engine/chain"
	"github.com/knersus/faultline/internal/engine/extract"
	"github.com/knersus/faultline/internal/engine/noise"
	"github.com/knersus/faultline/internal/engine/rootcause"
	"github.com/knersus/faultline/internal/engine/severity"
	"github.com/knersus/faultline/internal/engine/signature"
	"github.com/knersus/faultline/internal/model"
)

// Engine runs the full analysis over one capture log's text.
type Engine struct {
	extractor  *extract.Extractor
	noise      *noise.Filter
	dedup      *signature.Deduplicator
	scorer     *severity.Scorer
	analyzer   *rootcause.Analyzer
	correlator *chain.Correlator

	correlate bool
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithCorrelation enables chain correlation: after scoring, related records
// are collapsed into their chain roots.
func WithCorrelation(enabled bool) Option {
	return func(e *Engine) { e.correlate = enabled }
}

// WithNoisePatterns adds extra substrings treated as harness-internal noise.
func WithNoisePatterns(patterns ...string) Option {
	return func(e *Engine) { e.noise = noise.New(patterns...) }
}

// WithClock overrides the wall clock used for analysis-time timestamp
// fallback. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine with default stages.
func New(opts ...Option) *Engine {
	e := &Engine{
		extractor:  extract.New(),
		noise:      noise.New(),
		dedup:      signature.New(),
		scorer:     severity.New(),
		analyzer:   rootcause.New(),
		correlator: chain.New(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of analyzing one capture log.
type Result struct {
	Records     []*model.ErrorRecord
	Environment model.Environment
	TestSummary model.TestSummary
	Correlated  bool
}

// Analyze runs every stage over the log text. The returned records are
// noise-filtered, deduplicated, scored, root-caused, and, when correlation
// is on, reduced to chain representatives. Ordering is by severity
// descending after scoring; correlation preserves chain-discovery order.
func (e *Engine) Analyze(text string) Result {
	at := e.now()

	records := e.extractor.Extract(text, at)

	env := ExtractEnvironment(text)
	summary := ExtractTestSummary(text, records)

	records = e.noise.Apply(records)
	records = e.dedup.Deduplicate(records)
	e.scorer.Apply(records)
	e.analyzer.Apply(records)

	correlated := false
	if e.correlate && len(records) > 1 {
		records = e.correlator.Correlate(records)
		correlated = true
	}

	return Result{
		Records:     records,
		Environment: env,
		TestSummary: summary,
		Correlated:  correlated,
	}
}
