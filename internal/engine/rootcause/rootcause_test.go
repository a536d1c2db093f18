package rootcause

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/knersus/faultline/internal/model"
)

var lateinitContext = []string{
	"// CRASH: com.example.app (pid 1234)",
	"// Long Msg: kotlin.UninitializedPropertyAccessException: lateinit property binding has not been initialized",
	"at com.example.app.ProfileFragment.onViewCreated(ProfileFragment.kt:58)",
	"at androidx.fragment.app.Fragment.performViewCreated(Fragment.java:3100)",
	"at android.os.Handler.handleCallback(Handler.java:942)",
}

func lateinitRecord() *model.ErrorRecord {
	return &model.ErrorRecord{
		Category:    model.CategoryCrash,
		ProcessName: "com.example.app",
		Context:     lateinitContext,
	}
}

func TestAnalyzeLateinit(t *testing.T) {
	rc := New().Analyze(lateinitRecord())

	if rc.Pattern != model.PatternUninitializedLateinit {
		t.Fatalf("expected lateinit pattern, got %q", rc.Pattern)
	}
	if rc.PatternName != "Uninitialized lateinit property" {
		t.Errorf("unexpected pattern name %q", rc.PatternName)
	}
	if rc.PrimaryLocation == nil {
		t.Fatal("expected a primary location")
	}
	if rc.PrimaryLocation.Class != "com.example.app.ProfileFragment" {
		t.Errorf("expected application frame as primary, got %q", rc.PrimaryLocation.Class)
	}
	if rc.PrimaryLocation.Ownership != model.OwnerApplication {
		t.Errorf("expected APPLICATION ownership, got %q", rc.PrimaryLocation.Ownership)
	}
	if len(rc.FixSuggestions) == 0 || len(rc.FixSuggestions) > 3 {
		t.Errorf("expected 1-3 fix suggestions, got %d", len(rc.FixSuggestions))
	}
	// Application frame (50) + recognized pattern (40) + snippet (10).
	if rc.Confidence != 100 {
		t.Errorf("expected confidence 100, got %d", rc.Confidence)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := New()
	first := a.Analyze(lateinitRecord())
	second := a.Analyze(lateinitRecord())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("analysis not deterministic (-first +second):\n%s", diff)
	}
}

func TestParseFrames(t *testing.T) {
	frames := ParseFrames("at com.example.app.MainActivity.onCreate(MainActivity.kt:42)\n" +
		"at okhttp3.RealCall.execute(RealCall.kt:100)\n" +
		"at java.lang.reflect.Method.invoke(Method.java:558)")

	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if frames[0].Method != "onCreate" || frames[0].File != "MainActivity.kt" || frames[0].Line != 42 {
		t.Errorf("unexpected first frame: %+v", frames[0])
	}

	wantOwners := []model.Ownership{model.OwnerApplication, model.OwnerThirdParty, model.OwnerSystem}
	for i, want := range wantOwners {
		if frames[i].Ownership != want {
			t.Errorf("frame %d: expected ownership %q, got %q", i, want, frames[i].Ownership)
		}
	}
}

func TestPrimaryLocationFallsBackToFirstFrame(t *testing.T) {
	r := &model.ErrorRecord{
		Category: model.CategoryCrash,
		Context: []string{
			"java.lang.IllegalStateException: boom",
			"at android.app.ActivityThread.main(ActivityThread.java:7800)",
			"at java.lang.reflect.Method.invoke(Method.java:558)",
		},
	}
	rc := New().Analyze(r)
	if rc.PrimaryLocation == nil {
		t.Fatal("expected a primary location from system frames")
	}
	if rc.PrimaryLocation.Class != "android.app.ActivityThread" {
		t.Errorf("expected first frame as fallback, got %q", rc.PrimaryLocation.Class)
	}
	if rc.PrimaryLocation.Ownership != model.OwnerSystem {
		t.Errorf("expected SYSTEM ownership, got %q", rc.PrimaryLocation.Ownership)
	}
}

func TestAnalyzeNoFrames(t *testing.T) {
	r := &model.ErrorRecord{
		Category: model.CategoryException,
		Context:  []string{"something failed with no stack information"},
	}
	rc := New().Analyze(r)

	if rc.PrimaryLocation != nil {
		t.Errorf("expected nil primary location, got %+v", rc.PrimaryLocation)
	}
	if rc.Pattern != model.PatternUnknown {
		t.Errorf("expected UNKNOWN pattern, got %q", rc.Pattern)
	}
	if rc.Confidence != 10 {
		t.Errorf("expected floor confidence 10, got %d", rc.Confidence)
	}
	if len(rc.FixSuggestions) != 1 {
		t.Fatalf("expected the generic suggestion, got %v", rc.FixSuggestions)
	}
}

func TestPatternCatalogueOrder(t *testing.T) {
	// A lateinit failure surfaces lateinit keywords; the catalogue must
	// prefer that entry over broader ones matching the same context.
	ctx := "kotlin.UninitializedPropertyAccessException: lateinit property adapter " +
		"caused java.lang.IllegalStateException downstream"
	pattern, _ := matchPattern(ctx)
	if pattern != model.PatternUninitializedLateinit {
		t.Errorf("expected lateinit to win over lifecycle, got %q", pattern)
	}
}

func TestMatchPatterns(t *testing.T) {
	tests := []struct {
		context string
		want    model.Pattern
	}{
		{"java.lang.NullPointerException: null object reference", model.PatternNullPointer},
		{"java.lang.OutOfMemoryError: Failed to allocate 1048576 bytes", model.PatternOutOfMemory},
		{"android.content.res.Resources$NotFoundException: Resource ID #0x7f08", model.PatternResourceNotFound},
		{"java.util.ConcurrentModificationException", model.PatternConcurrentModification},
		{"java.lang.IllegalStateException: Can not perform this action after onSaveInstanceState", model.PatternLifecycleError},
		{"java.io.IOException: disk full", model.PatternUnknown},
	}
	for _, tt := range tests {
		if got, _ := matchPattern(tt.context); got != tt.want {
			t.Errorf("matchPattern(%q) = %q, want %q", tt.context, got, tt.want)
		}
	}
}

func TestSuggestionsGenericFallback(t *testing.T) {
	// Concurrent modification has no dedicated suggestion list.
	got := Suggestions(model.PatternConcurrentModification)
	if len(got) != 1 || got[0] != genericSuggestion[0] {
		t.Errorf("expected generic fallback, got %v", got)
	}
}

func TestCodeSnippetFromLongMsg(t *testing.T) {
	rc := New().Analyze(lateinitRecord())
	if rc.PrimaryLocation == nil || rc.PrimaryLocation.CodeSnippet == "" {
		t.Fatal("expected a code snippet on the primary location")
	}
}
