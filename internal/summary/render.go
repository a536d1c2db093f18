package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/knersus/faultline/internal/model"
)

// RenderText writes the plain-text executive summary used for the
// report directory's summary file.
func RenderText(w io.Writer, report *model.Report) error {
	var b strings.Builder

	b.WriteString("STRESS TEST ANALYSIS SUMMARY\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Run ID:     %s\n", report.RunID))
	b.WriteString(fmt.Sprintf("Generated:  %s\n", model.FormatTimestamp(report.GeneratedAt)))
	if report.LogPath != "" {
		b.WriteString(fmt.Sprintf("Log:        %s\n", report.LogPath))
	}
	b.WriteString("\n")

	env := report.Environment
	if env.BuildLabel != "" || env.BuildTime != "" {
		b.WriteString("Environment\n")
		if env.BuildLabel != "" {
			b.WriteString(fmt.Sprintf("  Build:       %s\n", env.BuildLabel))
		}
		if env.BuildTime != "" {
			b.WriteString(fmt.Sprintf("  Build time:  %s\n", env.BuildTime))
		}
		if env.Changelist != "" {
			b.WriteString(fmt.Sprintf("  Changelist:  %s\n", env.Changelist))
		}
		if len(env.Packages) > 0 {
			b.WriteString(fmt.Sprintf("  Packages:    %s\n", strings.Join(env.Packages, ", ")))
		}
		if env.OOMDetected {
			b.WriteString(fmt.Sprintf("  OOM:         failed to allocate %.1f MB\n", env.FailedAllocMegabytes))
		}
		b.WriteString("\n")
	}

	ts := report.TestSummary
	b.WriteString("Test run\n")
	b.WriteString(fmt.Sprintf("  Status:      %s\n", ts.Status))
	if ts.EventsInjected > 0 {
		b.WriteString(fmt.Sprintf("  Events:      %d\n", ts.EventsInjected))
	}
	b.WriteString(fmt.Sprintf("  Crashes:     %d\n", ts.TotalCrashes))
	b.WriteString(fmt.Sprintf("  ANRs:        %d\n", ts.TotalANRs))
	b.WriteString(fmt.Sprintf("  Exceptions:  %d\n", ts.TotalExceptions))
	b.WriteString("\n")

	s := report.Summary
	b.WriteString("Findings\n")
	b.WriteString(fmt.Sprintf("  Total (after filtering): %d\n", s.TotalErrors))
	b.WriteString(fmt.Sprintf("  Critical: %d  High: %d  Medium: %d  Low: %d\n",
		s.CriticalCount, s.HighCount, s.MediumCount, s.LowCount))
	b.WriteString(fmt.Sprintf("  Stability score: %d/100 (%s)\n", s.StabilityScore, s.Rating))
	b.WriteString("\n")

	if len(s.TopCritical) > 0 {
		b.WriteString("Top critical errors\n")
		for i, entry := range s.TopCritical {
			b.WriteString(fmt.Sprintf("  %d. [%s] %s", i+1, strings.ToUpper(string(entry.Category)), entry.ProcessName))
			if entry.Pattern != "" {
				b.WriteString(" - " + entry.Pattern)
			}
			if entry.Occurrences > 1 {
				b.WriteString(fmt.Sprintf(" (x%d)", entry.Occurrences))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Recommendations\n")
	for _, rec := range s.Recommendations {
		b.WriteString("  - " + rec + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var (
	headerColor   = color.New(color.Bold, color.FgCyan)
	criticalColor = color.New(color.Bold, color.FgRed)
	highColor     = color.New(color.FgRed)
	mediumColor   = color.New(color.FgYellow)
	lowColor      = color.New(color.FgGreen)
)

// RenderTerminal writes a colorized summary for interactive use. Colors are
// suppressed automatically when the writer is not a terminal.
func RenderTerminal(w io.Writer, report *model.Report) error {
	s := report.Summary

	if _, err := headerColor.Fprintln(w, "Stress test analysis"); err != nil {
		return err
	}
	fmt.Fprintf(w, "Run %s - %d error(s) after filtering\n\n", report.RunID, s.TotalErrors)

	fmt.Fprintf(w, "  %s  %s  %s  %s\n",
		criticalColor.Sprintf("critical %d", s.CriticalCount),
		highColor.Sprintf("high %d", s.HighCount),
		mediumColor.Sprintf("medium %d", s.MediumCount),
		lowColor.Sprintf("low %d", s.LowCount))

	ratingColor := lowColor
	switch s.Rating {
	case "poor":
		ratingColor = criticalColor
	case "fair":
		ratingColor = mediumColor
	}
	fmt.Fprintf(w, "  stability %s\n\n", ratingColor.Sprintf("%d/100 (%s)", s.StabilityScore, s.Rating))

	if len(s.TopCritical) > 0 {
		criticalColor.Fprintln(w, "Top critical errors")
		for i, entry := range s.TopCritical {
			fmt.Fprintf(w, "  %d. [%s] %s", i+1, strings.ToUpper(string(entry.Category)), entry.ProcessName)
			if entry.Pattern != "" {
				fmt.Fprintf(w, " - %s", entry.Pattern)
			}
			if entry.Occurrences > 1 {
				fmt.Fprintf(w, " (x%d)", entry.Occurrences)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	headerColor.Fprintln(w, "Recommendations")
	for _, rec := range s.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
	return nil
}
