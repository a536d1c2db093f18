// Package severity computes the 0-100 composite severity score and the
// discrete priority tier for each record. Scoring is a pure function of the
// record's content plus its deduplication metadata: reapplying it to the
// same records yields identical results.
package severity

import (
	"sort"
	"strings"

	"github.com/knersus/faultline/internal/model"
)

// typeScores is the fixed category weight table (0-40).
var typeScores = map[model.Category]int{
	model.CategoryCrash:     40,
	model.CategoryANR:       30,
	model.CategoryException: 15,
}

const defaultTypeScore = 10

// criticalModules are keywords marking a process or context as belonging to
// a critical module. Matched lower-cased, substring.
var criticalModules = []string{
	"activity", "mainactivity", "launcher",
	"payment", "login", "auth",
	"application", "service",
}

// blockingKeywords mark errors that stop the user outright. Checked before
// degradedKeywords; the first tier that matches wins.
var blockingKeywords = []string{
	"fatal", "unable to start", "cannot create",
	"force close", "application not responding",
}

// degradedKeywords mark errors that degrade but do not block.
var degradedKeywords = []string{
	"slow", "timeout", "retry",
	"null", "not found", "invalid",
}

// Priority tier thresholds on the composite total.
const (
	criticalThreshold = 80
	highThreshold     = 60
	mediumThreshold   = 40
)

// Scorer computes severity scores.
type Scorer struct{}

// New creates a Scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score computes the record's composite severity. Each factor is clamped
// independently; the total is clamped to 100.
func (s *Scorer) Score(r *model.ErrorRecord) model.SeverityScore {
	details := model.ScoreDetails{
		TypeScore:       typeScore(r.Category),
		ImpactScore:     impactScore(r),
		FrequencyScore:  frequencyScore(r),
		UserImpactScore: userImpactScore(r),
	}
	total := details.TypeScore + details.ImpactScore + details.FrequencyScore + details.UserImpactScore
	if total > 100 {
		total = 100
	}
	return model.SeverityScore{
		Total:    total,
		Priority: PriorityFor(total),
		Details:  details,
	}
}

// Apply scores every record and sorts them by total descending. The sort is
// stable: ties keep their incoming order.
func (s *Scorer) Apply(records []*model.ErrorRecord) {
	for _, r := range records {
		score := s.Score(r)
		r.Severity = &score
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Severity.Total > records[j].Severity.Total
	})
}

// PriorityFor maps a composite total to its priority tier.
func PriorityFor(total int) model.Priority {
	switch {
	case total >= criticalThreshold:
		return model.PriorityCritical
	case total >= highThreshold:
		return model.PriorityHigh
	case total >= mediumThreshold:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

func typeScore(c model.Category) int {
	if score, ok := typeScores[c]; ok {
		return score
	}
	return defaultTypeScore
}

// impactScore (0-20): +10 when the process name carries no qualifier suffix
// (it is the main process), +10 when a critical-module keyword appears in
// the process name or context.
func impactScore(r *model.ErrorRecord) int {
	process := strings.ToLower(r.ProcessName)
	context := strings.ToLower(r.ContextText())

	score := 0
	if !strings.Contains(process, ":") {
		score += 10
	}
	for _, module := range criticalModules {
		if strings.Contains(process, module) || strings.Contains(context, module) {
			score += 10
			break
		}
	}
	if score > 20 {
		score = 20
	}
	return score
}

// frequencyScore (0-20) requires deduplication metadata; without it the
// factor is 0.
func frequencyScore(r *model.ErrorRecord) int {
	if r.Dedup == nil {
		return 0
	}
	switch n := r.Dedup.Occurrences; {
	case n >= 10:
		return 20
	case n >= 5:
		return 15
	case n >= 3:
		return 10
	default:
		return 5
	}
}

// userImpactScore (0-20): blocking keywords beat degraded keywords.
func userImpactScore(r *model.ErrorRecord) int {
	context := strings.ToLower(r.ContextText())
	for _, k := range blockingKeywords {
		if strings.Contains(context, k) {
			return 20
		}
	}
	for _, k := range degradedKeywords {
		if strings.Contains(context, k) {
			return 10
		}
	}
	return 5
}
