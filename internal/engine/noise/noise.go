// Package noise discards records produced by the stress-test tool's own
// instrumentation process. It runs immediately after extraction, before any
// signature is computed, so filtered noise never reaches deduplication or
// chain correlation.
package noise

import (
	"strings"

	"github.com/knersus/faultline/internal/model"
)

// internalPatterns are package and class names belonging to the stress
// tooling itself. Matching is substring-based and case-sensitive.
var internalPatterns = []string{
	"flipjava.io",
	"com.android.commands.monkey",
	"android.app.Instrumentation",
	"/system/bin/monkey",
	"MonkeySourceNetwork",
	"MonkeySourceRandom",
}

// Filter drops tool-internal records.
type Filter struct {
	patterns []string
}

// New creates a Filter with the built-in pattern list plus any extras.
func New(extra ...string) *Filter {
	patterns := make([]string, 0, len(internalPatterns)+len(extra))
	patterns = append(patterns, internalPatterns...)
	patterns = append(patterns, extra...)
	return &Filter{patterns: patterns}
}

// IsInternal reports whether the record's process name or evidence text
// matches a tool-internal pattern.
func (f *Filter) IsInternal(r *model.ErrorRecord) bool {
	if f.matches(r.ProcessName) {
		return true
	}
	if r.ErrorDetails != "" || r.StackTrace != "" {
		return f.matches(r.ErrorDetails + r.StackTrace)
	}
	return f.matches(r.ContextText())
}

// Apply returns the records that survive the filter, preserving order.
func (f *Filter) Apply(records []*model.ErrorRecord) []*model.ErrorRecord {
	kept := make([]*model.ErrorRecord, 0, len(records))
	for _, r := range records {
		if f.IsInternal(r) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func (f *Filter) matches(s string) bool {
	if s == "" {
		return false
	}
	for _, p := range f.patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
