// Package chain groups temporally and causally related records and keeps
// only each group's root-cause record, discarding derived noise. A single
// underlying fault often surfaces as several log entries (an exception
// followed by the crash it caused); this pass collapses such cascades.
package chain

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/knersus/faultline/internal/engine/signature"
	"github.com/knersus/faultline/internal/model"
)

// timeWindow bounds how far apart two related records may be. When either
// record's timestamp is the analysis-time fallback the check is skipped
// rather than failing the relation.
const timeWindow = 5 * time.Second

// minSharedClasses is the call-stack relation threshold: two records are
// stack-related when their frames share at least this many class names.
const minSharedClasses = 2

var (
	exceptionTokenRE = regexp.MustCompile(`(\w+Exception|\w+Error)`)
	stackClassRE     = regexp.MustCompile(`at ([\w.$]+)\.`)

	errorMessageREs = []*regexp.Regexp{
		regexp.MustCompile(`Short Msg: (.+?)(?://|$)`),
		regexp.MustCompile(`Long Msg: (.+?)(?://|$)`),
		regexp.MustCompile(`lateinit property (\w+)`),
	}
)

// DepthFn measures a record's stack depth for root tie-breaking. The
// default counts " at " occurrences in the context. That is a proxy, not a
// structural frame count; it can misrank when context windows were
// truncated at the extraction caps, so it is replaceable.
type DepthFn func(*model.ErrorRecord) int

// Correlator builds error chains and selects their roots.
type Correlator struct {
	depth DepthFn
}

// New creates a Correlator with the default depth heuristic.
func New() *Correlator {
	return &Correlator{depth: ContextDepth}
}

// NewWithDepth creates a Correlator using a custom stack-depth measure.
func NewWithDepth(depth DepthFn) *Correlator {
	return &Correlator{depth: depth}
}

// ContextDepth is the default stack-depth measure: literal " at "
// occurrences in the joined context.
func ContextDepth(r *model.ErrorRecord) int {
	return strings.Count(r.ContextText(), " at ")
}

// Correlate sorts records by timestamp and groups them into chains, then
// returns one root record per chain in chain-discovery order. The output
// count is always ≤ len(records), and every root corresponds to an input
// record.
func (c *Correlator) Correlate(records []*model.ErrorRecord) []*model.ErrorRecord {
	if len(records) == 0 {
		return nil
	}
	chains := c.Build(records)
	roots := make([]*model.ErrorRecord, 0, len(chains))
	for _, ch := range chains {
		roots = append(roots, ch.Root)
	}
	return roots
}

// Build sorts records by timestamp ascending (stable) and walks them in
// order. Each unvisited record anchors a new chain; every later unvisited
// record related to the anchor joins it and is marked visited, so each
// record belongs to exactly one chain. Later members are deliberately not
// re-checked against each other; relation is evaluated only against the
// anchor.
func (c *Correlator) Build(records []*model.ErrorRecord) []model.ErrorChain {
	sorted := make([]*model.ErrorRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	visited := make([]bool, len(sorted))
	var chains []model.ErrorChain

	for i, anchor := range sorted {
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []*model.ErrorRecord{anchor}

		for j := i + 1; j < len(sorted); j++ {
			if visited[j] {
				continue
			}
			if Related(anchor, sorted[j]) {
				members = append(members, sorted[j])
				visited[j] = true
			}
		}

		chains = append(chains, model.ErrorChain{
			Records: members,
			Root:    c.selectRoot(members),
		})
	}
	return chains
}

// Related reports whether two records belong to the same chain: within the
// time window (when both timestamps are trustworthy), process-related, and
// sharing either error features or call-stack classes.
func Related(a, b *model.ErrorRecord) bool {
	if a.TimeSource != model.TimeAnalysis && b.TimeSource != model.TimeAnalysis {
		diff := b.Timestamp.Sub(a.Timestamp)
		if diff < 0 {
			diff = -diff
		}
		if diff > timeWindow {
			return false
		}
	}

	if !processRelated(a.ProcessName, b.ProcessName) {
		return false
	}

	ca, cb := a.ContextText(), b.ContextText()
	if featureOverlap(extractFeatures(ca), extractFeatures(cb)) {
		return true
	}
	return callStackRelated(ca, cb)
}

// processRelated holds when the names are identical, one contains the
// other, or both have at least three dot-separated segments and the first
// three match (same application, different components).
func processRelated(p1, p2 string) bool {
	if p1 == "" || p2 == "" {
		return false
	}
	if p1 == p2 {
		return true
	}
	if strings.Contains(p1, p2) || strings.Contains(p2, p1) {
		return true
	}
	parts1 := strings.Split(p1, ".")
	parts2 := strings.Split(p2, ".")
	if len(parts1) >= 3 && len(parts2) >= 3 {
		return parts1[0] == parts2[0] && parts1[1] == parts2[1] && parts1[2] == parts2[2]
	}
	return false
}

// features are the tokens used for the overlap check.
type features struct {
	exceptionTypes []string
	errorMessages  []string
	keyMethods     []string
}

func extractFeatures(context string) features {
	var f features
	for _, m := range exceptionTokenRE.FindAllStringSubmatch(context, -1) {
		f.exceptionTypes = append(f.exceptionTypes, m[1])
	}
	for _, re := range errorMessageREs {
		for _, m := range re.FindAllStringSubmatch(context, -1) {
			f.errorMessages = append(f.errorMessages, m[1])
		}
	}
	f.keyMethods = signature.KeyMethods(context)
	return f
}

// featureOverlap holds on any shared exception type, one error message
// containing the other, or any shared key method.
func featureOverlap(f1, f2 features) bool {
	if intersects(f1.exceptionTypes, f2.exceptionTypes) {
		return true
	}
	for _, m1 := range f1.errorMessages {
		for _, m2 := range f2.errorMessages {
			if m1 != "" && m2 != "" && (strings.Contains(m1, m2) || strings.Contains(m2, m1)) {
				return true
			}
		}
	}
	return intersects(f1.keyMethods, f2.keyMethods)
}

// callStackRelated holds when the two contexts share at least
// minSharedClasses fully-qualified class names across their stack frames.
func callStackRelated(c1, c2 string) bool {
	classes1 := stackClasses(c1)
	if len(classes1) == 0 {
		return false
	}
	classes2 := stackClasses(c2)
	if len(classes2) == 0 {
		return false
	}
	shared := 0
	for class := range classes2 {
		if classes1[class] {
			shared++
			if shared >= minSharedClasses {
				return true
			}
		}
	}
	return false
}

func stackClasses(context string) map[string]bool {
	matches := stackClassRE.FindAllStringSubmatch(context, -1)
	if len(matches) == 0 {
		return nil
	}
	classes := make(map[string]bool, len(matches))
	for _, m := range matches {
		classes[m[1]] = true
	}
	return classes
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if set[s] {
			return true
		}
	}
	return false
}

// selectRoot picks the chain's representative: the chronologically earliest
// crash or ANR when one exists, otherwise the deepest-stack record with
// ties broken by earliest timestamp. Members arrive time-sorted, so the
// first qualifying record wins in both cases.
func (c *Correlator) selectRoot(members []*model.ErrorRecord) *model.ErrorRecord {
	if len(members) == 1 {
		return members[0]
	}
	for _, r := range members {
		if r.Category == model.CategoryCrash || r.Category == model.CategoryANR {
			return r
		}
	}
	root := members[0]
	maxDepth := c.depth(root)
	for _, r := range members[1:] {
		if d := c.depth(r); d > maxDepth {
			root, maxDepth = r, d
		}
	}
	return root
}
