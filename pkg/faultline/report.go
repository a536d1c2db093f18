package faultline

import (
	"time"

	"github.com/knersus/faultline/internal/model"
)

// Report is the result of analyzing one capture log.
// These are the stable public types; internal representations may evolve
// independently.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	LogPath     string
	LogcatDir   string

	Errors      []Error
	Environment Environment
	TestSummary TestSummary
	Summary     Summary

	// Correlated is true when chain correlation ran and Errors holds only
	// chain representatives.
	Correlated bool
}

// Error is one catalogued error record.
type Error struct {
	Category    string // "crash", "anr", "exception"
	ProcessName string
	PID         string
	Timestamp   time.Time
	Context     []string

	Dedup     *Dedup
	Severity  *Severity
	RootCause *RootCause
}

// Dedup describes how often an error's signature recurred.
type Dedup struct {
	Signature          string
	Occurrences        int
	FirstSeen          time.Time
	LastSeen           time.Time
	FrequencyPerMinute float64
}

// Severity is a 0-100 composite score with its priority bucket.
type Severity struct {
	Total    int
	Priority string // "CRITICAL", "HIGH", "MEDIUM", "LOW"

	TypeScore       int
	ImpactScore     int
	FrequencyScore  int
	UserImpactScore int
}

// Frame is one parsed stack frame.
type Frame struct {
	Class     string
	Method    string
	File      string
	Line      int
	Ownership string // "SYSTEM", "THIRD_PARTY", "APPLICATION"

	// CodeSnippet is a short context hint, set on primary locations only.
	CodeSnippet string
}

func frameFromInternal(f model.Frame) Frame {
	return Frame{
		Class:       f.Class,
		Method:      f.Method,
		File:        f.File,
		Line:        f.Line,
		Ownership:   string(f.Ownership),
		CodeSnippet: f.CodeSnippet,
	}
}

// RootCause is the analyzer's attribution for an error.
type RootCause struct {
	CodeAttribution []Frame
	PrimaryLocation *Frame
	Pattern         string
	PatternName     string
	FixSuggestions  []string
	Confidence      int // 0-100
}

// Environment is the device and build context of the run.
type Environment struct {
	BuildLabel           string
	BuildTime            string
	Changelist           string
	Packages             []string
	OOMDetected          bool
	FailedAllocMegabytes float64
}

// TestSummary describes the stress-test run itself.
type TestSummary struct {
	Status          string // "COMPLETED", "ABORTED", "UNKNOWN"
	EventsInjected  int
	TotalCrashes    int
	TotalANRs       int
	TotalExceptions int
}

// Summary is the executive summary of the catalogue.
type Summary struct {
	TotalErrors     int
	CriticalCount   int
	HighCount       int
	MediumCount     int
	LowCount        int
	StabilityScore  int // 0-100
	Rating          string
	Recommendations []string
}

func reportFromInternal(r *model.Report) Report {
	out := Report{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		LogPath:     r.LogPath,
		LogcatDir:   r.LogcatDir,
		Correlated:  r.Correlated,
		Environment: Environment{
			BuildLabel:           r.Environment.BuildLabel,
			BuildTime:            r.Environment.BuildTime,
			Changelist:           r.Environment.Changelist,
			Packages:             r.Environment.Packages,
			OOMDetected:          r.Environment.OOMDetected,
			FailedAllocMegabytes: r.Environment.FailedAllocMegabytes,
		},
		TestSummary: TestSummary{
			Status:          string(r.TestSummary.Status),
			EventsInjected:  r.TestSummary.EventsInjected,
			TotalCrashes:    r.TestSummary.TotalCrashes,
			TotalANRs:       r.TestSummary.TotalANRs,
			TotalExceptions: r.TestSummary.TotalExceptions,
		},
		Summary: Summary{
			TotalErrors:     r.Summary.TotalErrors,
			CriticalCount:   r.Summary.CriticalCount,
			HighCount:       r.Summary.HighCount,
			MediumCount:     r.Summary.MediumCount,
			LowCount:        r.Summary.LowCount,
			StabilityScore:  r.Summary.StabilityScore,
			Rating:          r.Summary.Rating,
			Recommendations: r.Summary.Recommendations,
		},
	}
	out.Errors = make([]Error, 0, len(r.Records))
	for _, rec := range r.Records {
		out.Errors = append(out.Errors, errorFromRecord(rec))
	}
	return out
}

func errorFromRecord(rec *model.ErrorRecord) Error {
	e := Error{
		Category:    string(rec.Category),
		ProcessName: rec.ProcessName,
		PID:         rec.PID,
		Timestamp:   rec.Timestamp,
		Context:     rec.Context,
	}
	if rec.Dedup != nil {
		e.Dedup = &Dedup{
			Signature:          rec.Dedup.Signature,
			Occurrences:        rec.Dedup.Occurrences,
			FirstSeen:          rec.Dedup.FirstSeen,
			LastSeen:           rec.Dedup.LastSeen,
			FrequencyPerMinute: rec.Dedup.FrequencyPerMinute,
		}
	}
	if rec.Severity != nil {
		e.Severity = &Severity{
			Total:           rec.Severity.Total,
			Priority:        string(rec.Severity.Priority),
			TypeScore:       rec.Severity.Details.TypeScore,
			ImpactScore:     rec.Severity.Details.ImpactScore,
			FrequencyScore:  rec.Severity.Details.FrequencyScore,
			UserImpactScore: rec.Severity.Details.UserImpactScore,
		}
	}
	if rec.RootCause != nil {
		rc := &RootCause{
			Pattern:        string(rec.RootCause.Pattern),
			PatternName:    rec.RootCause.PatternName,
			FixSuggestions: rec.RootCause.FixSuggestions,
			Confidence:     rec.RootCause.Confidence,
		}
		for _, f := range rec.RootCause.CodeAttribution {
			rc.CodeAttribution = append(rc.CodeAttribution, frameFromInternal(f))
		}
		if loc := rec.RootCause.PrimaryLocation; loc != nil {
			f := frameFromInternal(*loc)
			rc.PrimaryLocation = &f
		}
		e.RootCause = rc
	}
	return e
}
