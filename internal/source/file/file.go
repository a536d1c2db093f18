// Package file provides the single-file capture source.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knersus/faultline/internal/source"
)

// Capture directory naming convention: a monkey log lives under a
// monkey_logs_<timestamp> directory, with logcat output captured in a
// sibling logcat_logs_<timestamp> directory.
const (
	monkeyDirPrefix = "monkey_logs_"
	logcatDirPrefix = "logcat_logs_"
)

func init() {
	source.Register("file", func() source.Source {
		return &Source{}
	})
}

// Source loads one capture log from disk.
type Source struct{}

// Resolve reads the log at path and locates its sibling logcat directory.
// Byte sequences that are not valid UTF-8 are replaced rather than failing
// the load; device logs routinely contain garbage bytes around crashes.
func (s *Source) Resolve(ctx context.Context, path string) ([]source.Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capture log: %w", err)
	}
	text := strings.ToValidUTF8(string(data), "�")

	return []source.Capture{{
		LogPath:   path,
		LogcatDir: LogcatDirFor(path),
		Text:      text,
	}}, nil
}

// LogcatDirFor maps a monkey log path to its sibling logcat capture
// directory, returning "" when the path does not follow the capture naming
// convention or the sibling does not exist.
func LogcatDirFor(logPath string) string {
	dir := filepath.Dir(logPath)
	base := filepath.Base(dir)
	if !strings.HasPrefix(base, monkeyDirPrefix) {
		return ""
	}
	suffix := strings.TrimPrefix(base, monkeyDirPrefix)
	candidate := filepath.Join(filepath.Dir(dir), logcatDirPrefix+suffix)
	info, err := os.Stat(candidate)
	if err != nil || !info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			slog.Debug("logcat sibling lookup failed", "path", candidate, "error", err)
		}
		return ""
	}
	return candidate
}
