// Package rootcause parses stack frames out of a record's context,
// classifies code ownership, matches the known-failure catalogue, and emits
// fix suggestions with a confidence score. Analysis is a pure function of
// the record's context text: identical input always yields identical
// results.
package rootcause

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/knersus/faultline/internal/model"
)

var (
	stackFrameRE = regexp.MustCompile(`at ([\w.$]+)\.(\w+)\(([\w.]+):(\d+)\)`)
	longMsgRE    = regexp.MustCompile(`Long Msg: (.+?)(?://|$)`)
	namedTokenRE = regexp.MustCompile(`property (\w+)|variable (\w+)|method (\w+)`)
)

// maxSnippetFragments caps the code-snippet hint joined onto the primary
// location.
const maxSnippetFragments = 3

// Confidence contributions.
const (
	confidenceApplication = 50
	confidenceThirdParty  = 30
	confidenceOther       = 10 // SYSTEM frame or no parseable frames
	confidencePattern     = 40
	confidenceSnippet     = 10
)

// Analyzer performs root-cause analysis.
type Analyzer struct{}

// New creates an Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze attributes the record's stack frames, selects a primary location,
// matches the failure-pattern catalogue, and scores confidence.
func (a *Analyzer) Analyze(r *model.ErrorRecord) model.RootCause {
	context := r.ContextText()

	frames := ParseFrames(context)
	primary := primaryLocation(frames)
	if primary != nil {
		primary.CodeSnippet = codeSnippet(context)
	}
	pattern, name := matchPattern(context)

	return model.RootCause{
		CodeAttribution: frames,
		PrimaryLocation: primary,
		Pattern:         pattern,
		PatternName:     name,
		FixSuggestions:  Suggestions(pattern),
		Confidence:      confidence(primary, pattern),
	}
}

// Apply annotates every record with its root-cause analysis.
func (a *Analyzer) Apply(records []*model.ErrorRecord) {
	for _, r := range records {
		rc := a.Analyze(r)
		r.RootCause = &rc
	}
}

// ParseFrames extracts every "at Class.method(File:Line)" stack frame from
// text, classified by code ownership.
func ParseFrames(text string) []model.Frame {
	matches := stackFrameRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	frames := make([]model.Frame, 0, len(matches))
	for _, m := range matches {
		line, _ := strconv.Atoi(m[4])
		frames = append(frames, model.Frame{
			Class:     m[1],
			Method:    m[2],
			File:      m[3],
			Line:      line,
			Ownership: classifyOwnership(m[1]),
		})
	}
	return frames
}

// classifyOwnership assigns a frame's class path to platform, third-party,
// or application code.
func classifyOwnership(classPath string) model.Ownership {
	if strings.HasPrefix(classPath, "android.") || strings.HasPrefix(classPath, "java.") {
		return model.OwnerSystem
	}
	for _, token := range thirdPartyTokens {
		if strings.Contains(classPath, token) {
			return model.OwnerThirdParty
		}
	}
	return model.OwnerApplication
}

// primaryLocation picks the first application-owned frame, falling back to
// the first frame of any ownership. Returns nil when no frames parsed.
func primaryLocation(frames []model.Frame) *model.Frame {
	for _, f := range frames {
		if f.Ownership == model.OwnerApplication {
			loc := f
			return &loc
		}
	}
	if len(frames) > 0 {
		loc := frames[0]
		return &loc
	}
	return nil
}

// codeSnippet pulls a short hint from the context: "Long Msg:" fields
// first, then named property/variable/method tokens, at most
// maxSnippetFragments fragments joined by spaces.
func codeSnippet(context string) string {
	var fragments []string
	for _, m := range longMsgRE.FindAllStringSubmatch(context, -1) {
		fragments = append(fragments, strings.TrimSpace(m[1]))
	}
	for _, m := range namedTokenRE.FindAllStringSubmatch(context, -1) {
		for _, g := range m[1:] {
			if g != "" {
				fragments = append(fragments, g)
			}
		}
	}
	if len(fragments) > maxSnippetFragments {
		fragments = fragments[:maxSnippetFragments]
	}
	return strings.Join(fragments, " ")
}

// matchPattern tests the context against the ordered failure catalogue.
// First matching entry wins; no match yields UNKNOWN.
func matchPattern(context string) (model.Pattern, string) {
	lowered := strings.ToLower(context)
	for _, entry := range patternCatalogue {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				return entry.id, entry.name
			}
		}
	}
	return model.PatternUnknown, unknownPatternName
}

// Suggestions returns the ordered fix-suggestion list for a pattern,
// capped at three entries.
func Suggestions(p model.Pattern) []string {
	suggestions, ok := fixSuggestions[p]
	if !ok {
		return append([]string(nil), genericSuggestion...)
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return append([]string(nil), suggestions...)
}

// confidence scores how trustworthy the analysis is: ownership of the
// primary location, a recognized pattern, and an extracted snippet each
// contribute, clamped to 100.
func confidence(primary *model.Frame, pattern model.Pattern) int {
	score := confidenceOther
	if primary != nil {
		switch primary.Ownership {
		case model.OwnerApplication:
			score = confidenceApplication
		case model.OwnerThirdParty:
			score = confidenceThirdParty
		}
	}
	if pattern != model.PatternUnknown {
		score += confidencePattern
	}
	if primary != nil && primary.CodeSnippet != "" {
		score += confidenceSnippet
	}
	if score > 100 {
		score = 100
	}
	return score
}
