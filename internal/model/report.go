package model

import "time"

// TimestampLayout is the catalogue wire format for timestamps:
// ISO-8601 with millisecond precision and a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the catalogue wire format (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Environment holds context about the device and test run, extracted from
// the capture log header and footer.
type Environment struct {
	BuildLabel           string   `json:"buildLabel,omitempty"`
	BuildTime            string   `json:"buildTime,omitempty"`
	Changelist           string   `json:"changelist,omitempty"`
	Packages             []string `json:"packages,omitempty"`
	OOMDetected          bool     `json:"oomDetected,omitempty"`
	FailedAllocBytes     int64    `json:"failedAllocationBytes,omitempty"`
	FailedAllocMegabytes float64  `json:"failedAllocationMb,omitempty"`
}

// TestStatus reports whether the stress run completed.
type TestStatus string

const (
	TestCompleted TestStatus = "COMPLETED"
	TestAborted   TestStatus = "ABORTED"
	TestUnknown   TestStatus = "UNKNOWN"
)

// TestSummary describes the stress-test run the log was captured from.
type TestSummary struct {
	Status          TestStatus `json:"status"`
	EventsInjected  int        `json:"eventsInjected,omitempty"`
	AbortedOnError  bool       `json:"abortedOnError,omitempty"`
	TotalCrashes    int        `json:"totalCrashes"`
	TotalANRs       int        `json:"totalAnrs"`
	TotalExceptions int        `json:"totalExceptions"`
}

// CriticalEntry is one line of the executive summary's top-critical listing.
type CriticalEntry struct {
	Category    Category `json:"category"`
	ProcessName string   `json:"processName"`
	Pattern     string   `json:"pattern"`
	Occurrences int      `json:"occurrences"`
}

// Summary is the executive summary derived from a finished catalogue.
type Summary struct {
	TotalErrors     int             `json:"totalErrors"`
	CriticalCount   int             `json:"criticalCount"`
	HighCount       int             `json:"highCount"`
	MediumCount     int             `json:"mediumCount"`
	LowCount        int             `json:"lowCount"`
	TopCritical     []CriticalEntry `json:"topCritical,omitempty"`
	StabilityScore  int             `json:"stabilityScore"` // 0-100
	Rating          string          `json:"rating"`
	Recommendations []string        `json:"recommendations"`
}

// Report is the complete result of analyzing one capture log.
// Each analysis run owns its report exclusively; nothing is shared across
// concurrent runs.
type Report struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`
	LogPath     string    `json:"logPath,omitempty"`
	LogcatDir   string    `json:"logcatDir,omitempty"`

	Records     []*ErrorRecord `json:"-"`
	Environment Environment    `json:"environment"`
	TestSummary TestSummary    `json:"testSummary"`
	Summary     Summary        `json:"summary"`

	// Correlated is true when chain correlation ran and Records holds only
	// chain representatives.
	Correlated bool `json:"correlated"`
}

// CatalogueItem is the wire shape of one emitted catalogue record.
type CatalogueItem struct {
	Category    Category `json:"category"`
	ProcessName string   `json:"processName"`
	PID         string   `json:"pid,omitempty"`
	Timestamp   string   `json:"timestamp"`
	Context     []string `json:"context"`

	// Full-detail annotations; nil in simple mode.
	Deduplication *CatalogueDedup `json:"deduplication,omitempty"`
	Severity      *SeverityScore  `json:"severity,omitempty"`
	RootCause     *RootCause      `json:"rootCause,omitempty"`
}

// CatalogueDedup is the wire shape of a record's deduplication metadata.
type CatalogueDedup struct {
	Signature          string  `json:"signature"`
	Occurrences        int     `json:"occurrences"`
	FirstSeen          string  `json:"firstSeen"`
	LastSeen           string  `json:"lastSeen"`
	FrequencyPerMinute float64 `json:"frequencyPerMinute"`
}

// ItemFromRecord converts a record to its catalogue wire shape.
// With fullDetail false only the basic fields are populated.
func ItemFromRecord(r *ErrorRecord, fullDetail bool) CatalogueItem {
	item := CatalogueItem{
		Category:    r.Category,
		ProcessName: r.ProcessName,
		PID:         r.PID,
		Timestamp:   FormatTimestamp(r.Timestamp),
		Context:     r.Context,
	}
	if !fullDetail {
		return item
	}
	if r.Dedup != nil {
		item.Deduplication = &CatalogueDedup{
			Signature:          r.Dedup.Signature,
			Occurrences:        r.Dedup.Occurrences,
			FirstSeen:          FormatTimestamp(r.Dedup.FirstSeen),
			LastSeen:           FormatTimestamp(r.Dedup.LastSeen),
			FrequencyPerMinute: r.Dedup.FrequencyPerMinute,
		}
	}
	item.Severity = r.Severity
	item.RootCause = r.RootCause
	return item
}
