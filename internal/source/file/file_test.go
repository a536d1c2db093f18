package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCapture(t *testing.T, base, dirName, name, content string) string {
	t.Helper()
	dir := filepath.Join(base, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	path := writeCapture(t, base, "monkey_logs_20250114_103000", "monkey.log",
		"// CRASH: com.example.app (pid 1)\n")

	captures, err := (&Source{}).Resolve(context.Background(), path)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(captures) != 1 {
		t.Fatalf("expected 1 capture, got %d", len(captures))
	}
	c := captures[0]
	if c.LogPath != path {
		t.Errorf("expected log path %q, got %q", path, c.LogPath)
	}
	if !strings.Contains(c.Text, "CRASH: com.example.app") {
		t.Errorf("unexpected text %q", c.Text)
	}
	if c.LogcatDir != "" {
		t.Errorf("expected no logcat dir, got %q", c.LogcatDir)
	}
}

func TestResolveMissingFile(t *testing.T) {
	_, err := (&Source{}).Resolve(context.Background(), filepath.Join(t.TempDir(), "absent.log"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestResolveInvalidUTF8(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "monkey_logs_x")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "monkey.log")
	raw := append([]byte("// CRASH: com.example.app (pid 1)\n"), 0xff, 0xfe, '\n')
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	captures, err := (&Source{}).Resolve(context.Background(), path)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	text := captures[0].Text
	if !strings.Contains(text, "�") {
		t.Error("expected invalid bytes replaced with the replacement rune")
	}
	if !strings.Contains(text, "CRASH: com.example.app") {
		t.Error("expected valid content preserved")
	}
}

func TestLogcatDirFor(t *testing.T) {
	base := t.TempDir()
	path := writeCapture(t, base, "monkey_logs_20250114_103000", "monkey.log", "x")
	logcat := filepath.Join(base, "logcat_logs_20250114_103000")
	if err := os.MkdirAll(logcat, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if got := LogcatDirFor(path); got != logcat {
		t.Errorf("expected %q, got %q", logcat, got)
	}
}

func TestLogcatDirForNonConvention(t *testing.T) {
	base := t.TempDir()
	path := writeCapture(t, base, "somewhere_else", "monkey.log", "x")
	if got := LogcatDirFor(path); got != "" {
		t.Errorf("expected empty for non-convention path, got %q", got)
	}
}
