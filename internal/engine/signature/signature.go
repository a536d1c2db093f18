// Package signature computes stable stack signatures and collapses repeated
// occurrences of the same fault into counted groups.
package signature

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/knersus/faultline/internal/model"
)

var (
	exceptionTokenRE = regexp.MustCompile(`(\w+Exception|\w+Error)`)
	keyMethodRE      = regexp.MustCompile(`at ([\w.$]+\.[\w]+)\(`)
)

// keyMethodCount is how many leading stack-frame method identifiers
// participate in the signature.
const keyMethodCount = 3

// Compute returns the record's stack signature: a 16-hex-digit hash over
// the exception type token, the process name, and the first three
// stack-frame method identifiers in the context.
func Compute(r *model.ErrorRecord) string {
	context := r.ContextText()

	exceptionType := "Unknown"
	if m := exceptionTokenRE.FindStringSubmatch(context); m != nil {
		exceptionType = m[1]
	}

	parts := []string{exceptionType, r.ProcessName}
	parts = append(parts, KeyMethods(context)...)

	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

// KeyMethods extracts up to three leading stack-frame method identifiers
// from the given context text.
func KeyMethods(context string) []string {
	matches := keyMethodRE.FindAllStringSubmatch(context, keyMethodCount)
	if len(matches) == 0 {
		return nil
	}
	methods := make([]string, 0, len(matches))
	for _, m := range matches {
		methods = append(methods, m[1])
	}
	return methods
}

// group accumulates records sharing one signature.
type group struct {
	record *model.ErrorRecord
	count  int
	first  time.Time
	last   time.Time
}

// Deduplicator merges records by stack signature.
type Deduplicator struct{}

// New creates a Deduplicator.
func New() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate collapses records sharing a signature into one representative
// each, with DedupGroup metadata attached. Representatives are returned
// sorted by occurrence count descending; ties keep first-discovery order.
// The sum of group occurrences always equals len(records).
func (d *Deduplicator) Deduplicate(records []*model.ErrorRecord) []*model.ErrorRecord {
	if len(records) == 0 {
		return nil
	}

	// Ordered map: preserve first-occurrence order.
	type groupEntry struct {
		sig string
		grp *group
	}
	var order []*groupEntry
	groups := make(map[string]*groupEntry)

	for _, r := range records {
		sig := Compute(r)
		entry, exists := groups[sig]
		if !exists {
			entry = &groupEntry{sig: sig, grp: &group{record: r, first: r.Timestamp}}
			groups[sig] = entry
			order = append(order, entry)
		}
		entry.grp.count++
		entry.grp.last = r.Timestamp
	}

	result := make([]*model.ErrorRecord, 0, len(order))
	for _, entry := range order {
		g := entry.grp
		g.record.Dedup = &model.DedupGroup{
			Signature:          entry.sig,
			Occurrences:        g.count,
			FirstSeen:          g.first,
			LastSeen:           g.last,
			FrequencyPerMinute: frequencyPerMinute(g.count, g.first, g.last),
		}
		result = append(result, g.record)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Dedup.Occurrences > result[j].Dedup.Occurrences
	})
	return result
}

// frequencyPerMinute is occurrences over elapsed minutes, rounded to two
// decimals. Zero when there are fewer than two occurrences or the elapsed
// duration is zero.
func frequencyPerMinute(count int, first, last time.Time) float64 {
	if count < 2 {
		return 0
	}
	minutes := last.Sub(first).Minutes()
	if minutes <= 0 {
		return 0
	}
	return math.Round(float64(count)/minutes*100) / 100
}
