// Package extract scans raw stress-test capture logs for crash, ANR, and
// generic exception markers and produces unstructured error records with
// bounded context windows. Extraction never fails on malformed input:
// fragments missing their required captures are skipped, not reported.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/knersus/faultline/internal/model"
)

const (
	// maxContextLines caps the retained-line window around crash/ANR markers.
	maxContextLines = 20
	// minLinesBeforeBlankStop is how many lines a window must hold before a
	// blank line terminates it.
	minLinesBeforeBlankStop = 5
	// maxErrorSection / maxStackTrace cap the raw marker block and stack
	// window embedded on crash records.
	maxErrorSection = 500
	maxStackTrace   = 1000
	// exception windows span exceptionBefore lines before the trigger line
	// through exceptionAfter lines after it.
	exceptionBefore = 2
	exceptionAfter  = 5
)

var (
	crashMarker = regexp.MustCompile(`// CRASH: (.+?) \(pid (\d+)\)`)
	anrMarker   = regexp.MustCompile(`// NOT RESPONDING: (.+?) \(pid (\d+)\)`)

	buildTimeRE = regexp.MustCompile(`Build Time:\s*(\d{13})`)
	logStampRE  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)

	exceptionTypeRE = regexp.MustCompile(`([a-zA-Z0-9_.]+(?:Exception|Error))`)

	processLineRE = regexp.MustCompile(`Process: ([^,]+), PID: (\d+)`)
	packageRE     = regexp.MustCompile(`([a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)+)`)
)

// exceptionKeywords trigger generic exception extraction. Substring match,
// case-sensitive, checked in order.
var exceptionKeywords = []string{"Exception", "Error", "Fatal", "FAILED"}

// Extractor scans log text for the three marker families.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract runs all three scans over the log text and returns the extracted
// records in marker order: crashes, then ANRs, then generic exceptions.
// at is the analysis time used when a record carries no parsable timestamp.
func (e *Extractor) Extract(text string, at time.Time) []*model.ErrorRecord {
	lines := strings.Split(text, "\n")
	var records []*model.ErrorRecord
	records = append(records, e.FindCrashes(text, lines, at)...)
	records = append(records, e.FindANRs(text, lines, at)...)
	records = append(records, e.FindExceptions(lines, at)...)
	return records
}

// FindCrashes locates every "// CRASH: <process> (pid <pid>)" marker.
// For each, it captures the trailing comment block (error section), the
// first exception stack window mentioning the process, and a retained-line
// context window. Records with an empty context window are discarded.
func (e *Extractor) FindCrashes(text string, lines []string, at time.Time) []*model.ErrorRecord {
	var records []*model.ErrorRecord
	for _, m := range crashMarker.FindAllStringSubmatch(text, -1) {
		process, pid := m[1], m[2]
		section := extractErrorSection(lines, "CRASH: "+process)
		stack := extractStackTrace(lines, process)
		context := extractContextLines(lines, "CRASH: "+process)
		if len(context) == 0 {
			continue
		}
		ts, src := extractTimestamp(firstNonEmpty(section, strings.Join(context, "\n")), at)
		records = append(records, &model.ErrorRecord{
			Category:     model.CategoryCrash,
			ProcessName:  process,
			PID:          pid,
			Timestamp:    ts,
			TimeSource:   src,
			Context:      context,
			ErrorDetails: capString(section, maxErrorSection),
			StackTrace:   capString(stack, maxStackTrace),
		})
	}
	return records
}

// FindANRs locates every "// NOT RESPONDING: <process> (pid <pid>)" marker
// and captures its retained-line context window.
func (e *Extractor) FindANRs(text string, lines []string, at time.Time) []*model.ErrorRecord {
	var records []*model.ErrorRecord
	for _, m := range anrMarker.FindAllStringSubmatch(text, -1) {
		process, pid := m[1], m[2]
		context := extractContextLines(lines, "NOT RESPONDING: "+process)
		if len(context) == 0 {
			continue
		}
		ts, src := extractTimestamp(strings.Join(context, "\n"), at)
		records = append(records, &model.ErrorRecord{
			Category:    model.CategoryANR,
			ProcessName: process,
			PID:         pid,
			Timestamp:   ts,
			TimeSource:  src,
			Context:     context,
		})
	}
	return records
}

// FindExceptions scans each line for an exception keyword and emits a
// context window spanning exceptionBefore lines before the trigger through
// exceptionAfter lines after it.
func (e *Extractor) FindExceptions(lines []string, at time.Time) []*model.ErrorRecord {
	var records []*model.ErrorRecord
	for i, line := range lines {
		if !containsAny(line, exceptionKeywords) {
			continue
		}
		start := max(0, i-exceptionBefore)
		end := min(len(lines), i+exceptionAfter+1)
		window := lines[start:end]
		if len(window) == 0 {
			continue
		}
		contextText := strings.Join(window, "\n")
		ts, src := extractTimestamp(contextText+"\n"+line, at)
		records = append(records, &model.ErrorRecord{
			Category:    model.CategoryException,
			ProcessName: processFromContext(contextText),
			Timestamp:   ts,
			TimeSource:  src,
			Context:     append([]string(nil), window...),
		})
	}
	return records
}

// extractErrorSection collects lines starting at the first line containing
// keyword until (and including) the first non-comment, non-blank line.
func extractErrorSection(lines []string, keyword string) string {
	var section []string
	capture := false
	for _, line := range lines {
		if strings.Contains(line, keyword) {
			capture = true
		}
		if !capture {
			continue
		}
		section = append(section, line)
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "//") {
			break
		}
	}
	return strings.Join(section, "\n")
}

// extractStackTrace collects lines starting at the first line mentioning
// both the process name and an exception/error token, until a blank line
// after at least minLinesBeforeBlankStop collected lines.
func extractStackTrace(lines []string, process string) string {
	var stack []string
	capture := false
	for _, line := range lines {
		if strings.Contains(line, process) &&
			(strings.Contains(line, "Exception") || strings.Contains(line, "Error")) {
			capture = true
		}
		if !capture {
			continue
		}
		stack = append(stack, line)
		if strings.TrimSpace(line) == "" && len(stack) > minLinesBeforeBlankStop {
			break
		}
	}
	return strings.Join(stack, "\n")
}

// extractContextLines collects the retained-line window after keyword:
// comment lines, stack-frame lines, and exception/error lines are kept,
// other lines are skipped without ending the window. The window ends at
// maxContextLines retained lines, or at a blank line once more than
// minLinesBeforeBlankStop lines are retained.
func extractContextLines(lines []string, keyword string) []string {
	var context []string
	capture := false
	for _, line := range lines {
		if strings.Contains(line, keyword) {
			capture = true
		}
		if !capture {
			continue
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "at "):
			context = append(context, trimmed)
		case trimmed != "" && !strings.HasPrefix(trimmed, "**"):
			if strings.Contains(line, "Exception") || strings.Contains(line, "Error") {
				context = append(context, trimmed)
			}
		}
		if len(context) >= maxContextLines ||
			(trimmed == "" && len(context) > minLinesBeforeBlankStop) {
			break
		}
	}
	return context
}

// extractTimestamp pulls a timestamp out of text. Preference order: an
// embedded 13-digit "Build Time:" unix-millisecond stamp, a standard
// "YYYY-MM-DD HH:MM:SS" stamp, then the analysis time.
func extractTimestamp(text string, at time.Time) (time.Time, model.TimeSource) {
	if m := buildTimeRE.FindStringSubmatch(text); m != nil {
		if ms, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return time.UnixMilli(ms), model.TimeBuild
		}
	}
	if m := logStampRE.FindStringSubmatch(text); m != nil {
		if ts, err := time.ParseInLocation("2006-01-02 15:04:05", m[1], time.Local); err == nil {
			return ts, model.TimeLogLine
		}
	}
	return at, model.TimeAnalysis
}

// ExceptionType returns the first fully-qualified exception or error class
// name found in text, or "Unknown" when none is present.
func ExceptionType(text string) string {
	if m := exceptionTypeRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return "Unknown"
}

// processFromContext derives a process identity for a generic exception:
// a "Process: <name>, PID: <pid>" line wins, then the first package-shaped
// token, then "unknown".
func processFromContext(context string) string {
	if m := processLineRE.FindStringSubmatch(context); m != nil {
		return m[1] + " (PID: " + m[2] + ")"
	}
	if m := packageRE.FindStringSubmatch(context); m != nil {
		return m[1]
	}
	return "unknown"
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func capString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
