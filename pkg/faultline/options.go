package faultline

import "time"

type options struct {
	correlate     bool
	noisePatterns []string
	now           func() time.Time
}

// Option configures an Analyzer.
type Option func(*options)

// WithCorrelation collapses related errors into chain roots, so a single
// underlying fault produces one report entry instead of a cascade.
// Default: off.
func WithCorrelation(enabled bool) Option {
	return func(o *options) {
		o.correlate = enabled
	}
}

// WithNoisePatterns adds substrings treated as test-harness noise. Records
// from processes matching any pattern are dropped, in addition to the
// built-in harness filter set.
func WithNoisePatterns(patterns ...string) Option {
	return func(o *options) {
		o.noisePatterns = append(o.noisePatterns, patterns...)
	}
}

// WithClock overrides the wall clock used for report stamps and for
// records whose logs carry no usable timestamp. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func defaultOptions() options {
	return options{
		now: time.Now,
	}
}
