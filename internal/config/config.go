// Package config loads faultline configuration from an optional YAML file
// and FAULTLINE_* environment variables. Environment variables override the
// file; the file overrides built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all faultline configuration.
type Config struct {
	LogLevel string       `yaml:"logLevel"`
	Engine   EngineConfig `yaml:"engine"`
	Output   OutputConfig `yaml:"output"`
	Batch    BatchConfig  `yaml:"batch"`
}

// EngineConfig holds analysis engine settings.
type EngineConfig struct {
	// Correlate collapses related records into chain roots.
	Correlate bool `yaml:"correlate"`

	// NoisePatterns are extra substrings treated as harness-internal noise,
	// merged with the built-in filter set.
	NoisePatterns []string `yaml:"noisePatterns"`
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Format     string `yaml:"format"` // "stdout" or "dir"
	Pretty     bool   `yaml:"pretty"`
	FullDetail bool   `yaml:"fullDetail"`
	ReportDir  string `yaml:"reportDir"`
}

// BatchConfig holds batch run settings.
type BatchConfig struct {
	Parallelism int `yaml:"parallelism"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Output: OutputConfig{
			Format:    "stdout",
			ReportDir: ".",
		},
		Batch: BatchConfig{
			Parallelism: 4,
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FAULTLINE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v, ok := getenvBool("FAULTLINE_CORRELATE"); ok {
		cfg.Engine.Correlate = v
	}
	if v := os.Getenv("FAULTLINE_NOISE_PATTERNS"); v != "" {
		cfg.Engine.NoisePatterns = splitList(v)
	}
	if v := os.Getenv("FAULTLINE_OUTPUT"); v != "" {
		cfg.Output.Format = v
	}
	if v, ok := getenvBool("FAULTLINE_OUTPUT_PRETTY"); ok {
		cfg.Output.Pretty = v
	}
	if v, ok := getenvBool("FAULTLINE_FULL_DETAIL"); ok {
		cfg.Output.FullDetail = v
	}
	if v := os.Getenv("FAULTLINE_REPORT_DIR"); v != "" {
		cfg.Output.ReportDir = v
	}
	if v, ok := getenvInt("FAULTLINE_BATCH_PARALLELISM"); ok {
		cfg.Batch.Parallelism = v
	}
}

func getenvBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func getenvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
