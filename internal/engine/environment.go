package engine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/knersus/faultline/internal/model"
)

var (
	buildLabelRE      = regexp.MustCompile(`Build Label:\s*(\S+)`)
	buildTimeMillisRE = regexp.MustCompile(`Build Time:\s*(\d{13})`)
	changelistRE      = regexp.MustCompile(`Build Changelist:\s*(\d+)`)
	targetPackageRE   = regexp.MustCompile(`(?:Process: |CRASH: )([\w.]+)`)
	failedAllocRE     = regexp.MustCompile(`Failed to allocate (?:a )?(\d+) byte`)
	eventsInjectedRE  = regexp.MustCompile(`Events injected:\s*(\d+)`)
)

// ExtractEnvironment pulls device and build context from the log header,
// plus any out-of-memory evidence found anywhere in the text.
func ExtractEnvironment(text string) model.Environment {
	var env model.Environment

	if m := buildLabelRE.FindStringSubmatch(text); m != nil {
		env.BuildLabel = m[1]
	}
	if m := buildTimeMillisRE.FindStringSubmatch(text); m != nil {
		if millis, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			env.BuildTime = model.FormatTimestamp(time.UnixMilli(millis))
		}
	}
	if m := changelistRE.FindStringSubmatch(text); m != nil {
		env.Changelist = m[1]
	}

	env.Packages = targetPackages(text)

	// Any OutOfMemoryError in the text flags the run; the failed allocation
	// size is extra evidence, not the trigger.
	if strings.Contains(text, "OutOfMemoryError") {
		env.OOMDetected = true
	}
	if m := failedAllocRE.FindStringSubmatch(text); m != nil {
		env.OOMDetected = true
		if bytes, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			env.FailedAllocBytes = bytes
			env.FailedAllocMegabytes = float64(bytes) / (1024 * 1024)
		}
	}
	return env
}

// targetPackages collects the distinct application package names the log
// mentions, sorted for stable output. Android framework processes are not
// package targets and are skipped.
func targetPackages(text string) []string {
	seen := make(map[string]bool)
	for _, m := range targetPackageRE.FindAllStringSubmatch(text, -1) {
		pkg := m[1]
		if strings.HasPrefix(pkg, "android.") || strings.HasPrefix(pkg, "com.android.") {
			continue
		}
		if strings.Count(pkg, ".") < 2 {
			continue
		}
		seen[pkg] = true
	}
	if len(seen) == 0 {
		return nil
	}
	pkgs := make([]string, 0, len(seen))
	for pkg := range seen {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// ExtractTestSummary reads the run outcome from the log footer. Counts
// reflect everything extracted, before noise filtering, so the summary
// matches what the harness itself reported.
func ExtractTestSummary(text string, extracted []*model.ErrorRecord) model.TestSummary {
	summary := model.TestSummary{Status: model.TestUnknown}

	switch {
	case strings.Contains(text, "// Monkey finished"):
		summary.Status = model.TestCompleted
	case strings.Contains(text, "** Monkey aborted due to error."),
		strings.Contains(text, "** System appears to have crashed"):
		summary.Status = model.TestAborted
		summary.AbortedOnError = true
	}

	if m := eventsInjectedRE.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			summary.EventsInjected = n
		}
	}

	for _, r := range extracted {
		switch r.Category {
		case model.CategoryCrash:
			summary.TotalCrashes++
		case model.CategoryANR:
			summary.TotalANRs++
		case model.CategoryException:
			summary.TotalExceptions++
		}
	}
	return summary
}
