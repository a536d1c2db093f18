package faultline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const crashLog = `:Monkey: seed=1234 count=5000
// CRASH: com.example.app (pid 1234)
// Short Msg: java.lang.NullPointerException
// Long Msg: Unable to create application com.example.app: java.lang.NullPointerException
java.lang.NullPointerException: Attempt to invoke virtual method
	at com.example.app.MainActivity.onCreate(MainActivity.kt:42)
	at android.app.ActivityThread.performLaunchActivity(ActivityThread.java:3449)

Events injected: 5000
// Monkey finished
`

const cascadeLog = `// CRASH: com.example.app (pid 1234)
// Short Msg: java.lang.NullPointerException
// Long Msg: java.lang.NullPointerException in session manager
java.lang.NullPointerException: session is null
	at com.example.app.SessionManager.current(SessionManager.kt:31)
	at com.example.app.CartManager.load(CartManager.kt:55)

// NOT RESPONDING: com.example.app (pid 1234)
java.lang.NullPointerException: still broken
	at com.example.app.SessionManager.current(SessionManager.kt:31)
	at com.example.app.CheckoutActivity.onResume(CheckoutActivity.kt:88)

// Monkey finished
`

func TestAnalyze(t *testing.T) {
	a := New()
	report := a.Analyze(crashLog)

	if report.RunID == "" {
		t.Error("expected a run id")
	}
	if len(report.Errors) == 0 {
		t.Fatal("expected errors in the report")
	}

	first := report.Errors[0]
	if first.Category != "crash" {
		t.Errorf("expected a crash first, got %q", first.Category)
	}
	if first.ProcessName != "com.example.app" {
		t.Errorf("unexpected process %q", first.ProcessName)
	}
	if first.Dedup == nil || first.Dedup.Signature == "" {
		t.Error("expected a dedup signature")
	}
	if first.Severity == nil || first.Severity.Total <= 0 {
		t.Error("expected a severity score")
	}
	if first.RootCause == nil {
		t.Fatal("expected a root cause")
	}
	if first.RootCause.PrimaryLocation == nil {
		t.Fatal("expected a primary location")
	}
	if got := first.RootCause.PrimaryLocation.Ownership; got != "APPLICATION" {
		t.Errorf("expected APPLICATION ownership, got %q", got)
	}
	if len(first.RootCause.CodeAttribution) == 0 {
		t.Error("expected attributed frames")
	}

	if report.TestSummary.Status != "COMPLETED" {
		t.Errorf("expected COMPLETED, got %q", report.TestSummary.Status)
	}
	if report.TestSummary.EventsInjected != 5000 {
		t.Errorf("expected 5000 events, got %d", report.TestSummary.EventsInjected)
	}
	if report.Summary.TotalErrors != len(report.Errors) {
		t.Errorf("summary counts %d errors, report holds %d",
			report.Summary.TotalErrors, len(report.Errors))
	}
	if report.Summary.StabilityScore >= 100 {
		t.Errorf("a crashing run should cost stability, got %d", report.Summary.StabilityScore)
	}
}

func TestAnalyzeEmptyLog(t *testing.T) {
	report := New().Analyze("")

	if len(report.Errors) != 0 {
		t.Fatalf("expected no errors, got %d", len(report.Errors))
	}
	if report.Summary.StabilityScore != 100 {
		t.Errorf("expected stability 100, got %d", report.Summary.StabilityScore)
	}
}

func TestWithCorrelation(t *testing.T) {
	plain := New().Analyze(cascadeLog)
	correlated := New(WithCorrelation(true)).Analyze(cascadeLog)

	if plain.Correlated {
		t.Error("correlation should be off by default")
	}
	if !correlated.Correlated {
		t.Error("expected the correlated report to say so")
	}
	if len(correlated.Errors) > len(plain.Errors) {
		t.Errorf("correlation grew the catalogue: %d > %d",
			len(correlated.Errors), len(plain.Errors))
	}
}

func TestWithNoisePatterns(t *testing.T) {
	report := New(WithNoisePatterns("com.example.app")).Analyze(crashLog)

	for _, e := range report.Errors {
		if e.ProcessName == "com.example.app" {
			t.Errorf("filtered process survived: %+v", e)
		}
	}
	// Harness-reported totals count everything the log shows, filtered or not.
	if report.TestSummary.TotalCrashes == 0 {
		t.Error("expected the test summary to still count the crash")
	}
}

func TestWithClock(t *testing.T) {
	at := time.Date(2025, 1, 14, 10, 30, 0, 0, time.UTC)
	report := New(WithClock(func() time.Time { return at })).Analyze(crashLog)

	if !report.GeneratedAt.Equal(at) {
		t.Errorf("GeneratedAt = %v, want %v", report.GeneratedAt, at)
	}
}

func TestAnalyzeFile(t *testing.T) {
	base := t.TempDir()
	captureDir := filepath.Join(base, "monkey_logs_20250114")
	logcatDir := filepath.Join(base, "logcat_logs_20250114")
	for _, dir := range []string{captureDir, logcatDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	path := filepath.Join(captureDir, "monkey.log")
	if err := os.WriteFile(path, []byte(crashLog), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err := New().AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	if report.LogPath != path {
		t.Errorf("LogPath = %q, want %q", report.LogPath, path)
	}
	if report.LogcatDir != logcatDir {
		t.Errorf("LogcatDir = %q, want %q", report.LogcatDir, logcatDir)
	}
	if len(report.Errors) == 0 {
		t.Error("expected errors in the report")
	}
}

func TestAnalyzeFileMissing(t *testing.T) {
	_, err := New().AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "absent.log"))
	if err == nil {
		t.Fatal("expected error for a missing log")
	}
}
