package model

import "time"

// Category identifies the family of fault a record was extracted from.
type Category string

const (
	CategoryCrash     Category = "crash"
	CategoryANR       Category = "anr"
	CategoryException Category = "exception"
)

// TimeSource records where a record's timestamp came from. Timestamps fall
// back to the analysis wall clock when the log carries none, and callers
// must not assume precision for TimeAnalysis records.
type TimeSource int

const (
	TimeBuild    TimeSource = iota // embedded "Build Time:" unix-millisecond stamp
	TimeLogLine                    // standard "YYYY-MM-DD HH:MM:SS" stamp in the log
	TimeAnalysis                   // fallback: time of the analysis run
)

// ErrorRecord is one observed fault occurrence extracted from a capture log.
// The Dedup, Severity, and RootCause annotations are attached by the
// corresponding pipeline stages and are nil before those stages run.
type ErrorRecord struct {
	Category    Category
	ProcessName string
	PID         string // empty for generic exceptions
	Timestamp   time.Time
	TimeSource  TimeSource

	// Context is the evidentiary window of raw log lines around the marker.
	// Never empty for a successfully extracted record.
	Context []string

	// ErrorDetails and StackTrace hold the raw marker block and the matched
	// stack window for crash records (capped at extraction). They feed noise
	// filtering and exception-type detection but are not part of the
	// catalogue wire format.
	ErrorDetails string
	StackTrace   string

	Dedup     *DedupGroup
	Severity  *SeverityScore
	RootCause *RootCause
}

// ContextText returns the record's context joined into one searchable blob.
func (r *ErrorRecord) ContextText() string {
	switch len(r.Context) {
	case 0:
		return ""
	case 1:
		return r.Context[0]
	}
	n := 0
	for _, line := range r.Context {
		n += len(line) + 1
	}
	buf := make([]byte, 0, n)
	for i, line := range r.Context {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, line...)
	}
	return string(buf)
}

// DedupGroup describes the set of records sharing one stack signature.
// It is attached to the group's representative record.
type DedupGroup struct {
	Signature          string    `json:"signature"`
	Occurrences        int       `json:"occurrences"`
	FirstSeen          time.Time `json:"-"`
	LastSeen           time.Time `json:"-"`
	FrequencyPerMinute float64   `json:"frequencyPerMinute"`
}

// Priority is the discrete severity tier derived from the composite score.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL" // total >= 80
	PriorityHigh     Priority = "HIGH"     // total >= 60
	PriorityMedium   Priority = "MEDIUM"   // total >= 40
	PriorityLow      Priority = "LOW"      // total < 40
)

// ScoreDetails breaks the composite severity score into its four factors.
type ScoreDetails struct {
	TypeScore       int `json:"typeScore"`
	ImpactScore     int `json:"impactScore"`
	FrequencyScore  int `json:"frequencyScore"`
	UserImpactScore int `json:"userImpactScore"`
}

// SeverityScore is the 0-100 composite severity attached to a record.
type SeverityScore struct {
	Total    int          `json:"total"`
	Priority Priority     `json:"priority"`
	Details  ScoreDetails `json:"details"`
}

// Ownership classifies a stack frame by who owns the code it points at.
type Ownership string

const (
	OwnerSystem      Ownership = "SYSTEM"
	OwnerThirdParty  Ownership = "THIRD_PARTY"
	OwnerApplication Ownership = "APPLICATION"
)

// Frame is one parsed stack-frame descriptor.
type Frame struct {
	Class     string    `json:"class"`
	Method    string    `json:"method"`
	File      string    `json:"file"`
	Line      int       `json:"line"`
	Ownership Ownership `json:"ownership"`

	// CodeSnippet is a short hint pulled from the surrounding context.
	// Only populated on a RootCause's primary location.
	CodeSnippet string `json:"codeSnippet,omitempty"`
}

// Pattern identifies an entry in the known-failure catalogue.
type Pattern string

const (
	PatternUninitializedLateinit  Pattern = "UNINITIALIZED_LATEINIT"
	PatternNullPointer            Pattern = "NULL_POINTER"
	PatternOutOfMemory            Pattern = "OUT_OF_MEMORY"
	PatternResourceNotFound       Pattern = "RESOURCE_NOT_FOUND"
	PatternConcurrentModification Pattern = "CONCURRENT_MODIFICATION"
	PatternLifecycleError         Pattern = "LIFECYCLE_ERROR"
	PatternUnknown                Pattern = "UNKNOWN"
)

// RootCause is the heuristic root-cause analysis attached to a record.
type RootCause struct {
	CodeAttribution []Frame  `json:"codeAttribution"`
	PrimaryLocation *Frame   `json:"primaryLocation,omitempty"`
	Pattern         Pattern  `json:"pattern"`
	PatternName     string   `json:"patternName"`
	FixSuggestions  []string `json:"fixSuggestions"`
	Confidence      int      `json:"confidence"` // 0-100
}

// ErrorChain is a set of records judged to stem from one underlying fault.
// Exactly one member is the designated root.
type ErrorChain struct {
	Records []*ErrorRecord
	Root    *ErrorRecord
}
