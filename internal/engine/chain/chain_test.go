package chain

import (
	"testing"
	"time"

	"github.com/knersus/faultline/internal/model"
)

var base = time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)

func record(category model.Category, process string, offset time.Duration, context ...string) *model.ErrorRecord {
	return &model.ErrorRecord{
		Category:    category,
		ProcessName: process,
		Timestamp:   base.Add(offset),
		TimeSource:  model.TimeLogLine,
		Context:     context,
	}
}

var sharedStack = []string{
	"java.lang.NullPointerException: Attempt to invoke virtual method",
	"at com.example.app.CartManager.total(CartManager.kt:31)",
	"at com.example.app.CheckoutActivity.render(CheckoutActivity.kt:88)",
}

func TestCascadeCollapsesToCrashRoot(t *testing.T) {
	exception := record(model.CategoryException, "com.example.app", 0, sharedStack...)
	crash := record(model.CategoryCrash, "com.example.app", 2*time.Second,
		append([]string{"// CRASH: com.example.app (pid 1)"}, sharedStack...)...)

	roots := New().Correlate([]*model.ErrorRecord{exception, crash})

	if len(roots) != 1 {
		t.Fatalf("expected 1 chain root, got %d", len(roots))
	}
	if roots[0] != crash {
		t.Errorf("expected the crash as chain root, got %q record", roots[0].Category)
	}
}

func TestTimeWindowSeparates(t *testing.T) {
	a := record(model.CategoryException, "com.example.app", 0, sharedStack...)
	b := record(model.CategoryException, "com.example.app", 10*time.Second, sharedStack...)

	roots := New().Correlate([]*model.ErrorRecord{a, b})
	if len(roots) != 2 {
		t.Fatalf("expected separate chains beyond the 5s window, got %d", len(roots))
	}
}

func TestAnalysisTimeSkipsWindowCheck(t *testing.T) {
	a := record(model.CategoryException, "com.example.app", 0, sharedStack...)
	b := record(model.CategoryException, "com.example.app", time.Hour, sharedStack...)
	b.TimeSource = model.TimeAnalysis

	roots := New().Correlate([]*model.ErrorRecord{a, b})
	if len(roots) != 1 {
		t.Fatalf("expected one chain when a timestamp is untrusted, got %d", len(roots))
	}
}

func TestUnrelatedProcessesStaySeparate(t *testing.T) {
	a := record(model.CategoryException, "com.example.app", 0, sharedStack...)
	b := record(model.CategoryException, "org.other.tool", time.Second,
		"java.lang.NullPointerException: boom",
		"at org.other.tool.Worker.run(Worker.kt:9)")

	roots := New().Correlate([]*model.ErrorRecord{a, b})
	if len(roots) != 2 {
		t.Fatalf("expected unrelated processes in separate chains, got %d", len(roots))
	}
}

func TestProcessRelated(t *testing.T) {
	tests := []struct {
		p1, p2 string
		want   bool
	}{
		{"com.example.app", "com.example.app", true},
		{"com.example.app", "com.example.app:sync", true},
		{"com.example.app.feature", "com.example.app.other", true},
		{"com.example.app", "org.other.tool", false},
		{"", "com.example.app", false},
		{"a.b", "a.b.c", true}, // substring containment
	}
	for _, tt := range tests {
		if got := processRelated(tt.p1, tt.p2); got != tt.want {
			t.Errorf("processRelated(%q, %q) = %v, want %v", tt.p1, tt.p2, got, tt.want)
		}
	}
}

func TestCallStackRelation(t *testing.T) {
	// No shared exception token or key methods; two shared classes.
	a := record(model.CategoryException, "com.example.app", 0,
		"warning before failure",
		"at com.example.app.CartManager.load(CartManager.kt:10)",
		"at com.example.app.CheckoutActivity.open(CheckoutActivity.kt:20)")
	b := record(model.CategoryException, "com.example.app", time.Second,
		"another warning",
		"at com.example.app.CartManager.save(CartManager.kt:55)",
		"at com.example.app.CheckoutActivity.close(CheckoutActivity.kt:70)")

	if !Related(a, b) {
		t.Error("expected records sharing two stack classes to be related")
	}
}

func TestSingleSharedClassNotEnough(t *testing.T) {
	a := record(model.CategoryException, "com.example.app", 0,
		"first failure",
		"at com.example.app.CartManager.load(CartManager.kt:10)",
		"at com.example.app.Alpha.run(Alpha.kt:1)")
	b := record(model.CategoryException, "com.example.app", time.Second,
		"second failure",
		"at com.example.app.CartManager.save(CartManager.kt:55)",
		"at com.example.app.Beta.run(Beta.kt:2)")

	if Related(a, b) {
		t.Error("expected one shared class to be insufficient")
	}
}

func TestDeepestStackRootWhenNoCrash(t *testing.T) {
	shallow := record(model.CategoryException, "com.example.app", 0,
		"java.lang.NullPointerException: boom",
		"at com.example.app.CartManager.total(CartManager.kt:31)")
	deep := record(model.CategoryException, "com.example.app", time.Second,
		"java.lang.NullPointerException: boom",
		"at com.example.app.CartManager.total(CartManager.kt:31)",
		"at com.example.app.CheckoutActivity.render(CheckoutActivity.kt:88)",
		"at com.example.app.MainActivity.onResume(MainActivity.kt:12)")

	roots := New().Correlate([]*model.ErrorRecord{shallow, deep})
	if len(roots) != 1 {
		t.Fatalf("expected one chain, got %d", len(roots))
	}
	if roots[0] != deep {
		t.Error("expected the deepest-stack record as root")
	}
}

func TestCustomDepthFn(t *testing.T) {
	a := record(model.CategoryException, "com.example.app", 0, sharedStack...)
	b := record(model.CategoryException, "com.example.app", time.Second, sharedStack...)

	// Invert the heuristic: favor the later record.
	c := NewWithDepth(func(r *model.ErrorRecord) int {
		return int(r.Timestamp.Unix())
	})
	roots := c.Correlate([]*model.ErrorRecord{a, b})
	if len(roots) != 1 {
		t.Fatalf("expected one chain, got %d", len(roots))
	}
	if roots[0] != b {
		t.Error("expected custom depth function to pick the later record")
	}
}

func TestCorrelateCountNeverGrows(t *testing.T) {
	var records []*model.ErrorRecord
	for i := 0; i < 25; i++ {
		records = append(records, record(model.CategoryException, "com.example.app",
			time.Duration(i)*time.Second, sharedStack...))
	}
	roots := New().Correlate(records)
	if len(roots) > len(records) {
		t.Errorf("correlation grew the record set: %d > %d", len(roots), len(records))
	}
}

func TestCorrelateEmpty(t *testing.T) {
	if got := New().Correlate(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
