// Package summary derives an executive summary from an analyzed catalogue:
// priority counts, a stability score, a rating, and actionable
// recommendations.
package summary

import (
	"fmt"

	"github.com/knersus/faultline/internal/model"
)

const (
	maxTopCritical     = 3
	maxRecommendations = 5
)

// Penalty weights per priority bucket.
const (
	penaltyCritical = 10
	penaltyHigh     = 5
	penaltyMedium   = 2
	penaltyLow      = 1
)

// Build computes the executive summary over the final record set. The
// stability score starts at 100 and is reduced by error volume, per-record
// priority penalties, and recurrence penalties, clamped to zero.
func Build(records []*model.ErrorRecord, env model.Environment) model.Summary {
	s := model.Summary{TotalErrors: len(records)}

	score := 100

	// Volume penalty: two points per error, capped so volume alone never
	// dominates the priority-weighted penalties.
	volumePenalty := 2 * len(records)
	if volumePenalty > 40 {
		volumePenalty = 40
	}
	score -= volumePenalty

	anrSeen := false
	highFrequency := 0
	for _, r := range records {
		if r.Category == model.CategoryANR {
			anrSeen = true
		}
		if r.Severity == nil {
			continue
		}
		switch r.Severity.Priority {
		case model.PriorityCritical:
			s.CriticalCount++
			score -= penaltyCritical
			if len(s.TopCritical) < maxTopCritical {
				s.TopCritical = append(s.TopCritical, criticalEntry(r))
			}
		case model.PriorityHigh:
			s.HighCount++
			score -= penaltyHigh
		case model.PriorityMedium:
			s.MediumCount++
			score -= penaltyMedium
		case model.PriorityLow:
			s.LowCount++
			score -= penaltyLow
		}
		if r.Dedup != nil {
			switch {
			case r.Dedup.Occurrences > 10:
				score -= 5
				highFrequency++
			case r.Dedup.Occurrences > 5:
				score -= 3
				highFrequency++
			}
		}
	}
	if score < 0 {
		score = 0
	}

	s.StabilityScore = score
	s.Rating = rating(score)
	s.Recommendations = recommendations(s, env, anrSeen, highFrequency)
	return s
}

func criticalEntry(r *model.ErrorRecord) model.CriticalEntry {
	entry := model.CriticalEntry{
		Category:    r.Category,
		ProcessName: r.ProcessName,
		Occurrences: 1,
	}
	if r.RootCause != nil {
		entry.Pattern = r.RootCause.PatternName
	}
	if r.Dedup != nil {
		entry.Occurrences = r.Dedup.Occurrences
	}
	return entry
}

func rating(score int) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 75:
		return "good"
	case score >= 60:
		return "fair"
	default:
		return "poor"
	}
}

func recommendations(s model.Summary, env model.Environment, anrSeen bool, highFrequency int) []string {
	var recs []string
	if s.CriticalCount > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d critical error(s) before release", s.CriticalCount))
	}
	if s.HighCount > 0 {
		recs = append(recs, fmt.Sprintf("Address %d high-priority error(s) in the next iteration", s.HighCount))
	}
	if highFrequency > 0 {
		recs = append(recs, fmt.Sprintf("Investigate %d repeatedly recurring error(s); more than 5 occurrences of one signature suggests a tight failure loop", highFrequency))
	}
	if env.OOMDetected {
		recs = append(recs, "Out-of-memory condition detected; profile heap usage and check for leaks")
	}
	if anrSeen {
		recs = append(recs, "ANRs present; move blocking work off the main thread")
	}
	if len(recs) == 0 {
		recs = append(recs, "No urgent issues found; keep up stress-test coverage on new builds")
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
