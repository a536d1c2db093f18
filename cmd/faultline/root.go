package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knersus/faultline/internal/config"
	"github.com/knersus/faultline/internal/engine"
	"github.com/knersus/faultline/internal/logging"
	"github.com/knersus/faultline/internal/output"
	"github.com/knersus/faultline/internal/output/file"
	"github.com/knersus/faultline/internal/output/multi"
	"github.com/knersus/faultline/internal/output/stdout"

	// Register capture sources.
	_ "github.com/knersus/faultline/internal/source/file"
	_ "github.com/knersus/faultline/internal/source/scan"
)

var (
	configPath string
	logLevel   string
	correlate  bool
	fullDetail bool
	outFormat  string
	reportDir  string
	pretty     bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "faultline",
	Short: "Analyze Android stress-test logs for crashes, ANRs, and exceptions",
	Long: `faultline extracts error records from monkey stress-test capture logs,
filters harness noise, deduplicates recurring errors, scores severity,
and attributes a likely root cause to each record.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// Flags set explicitly override both file and environment.
		if cmd.Flags().Changed("correlate") {
			cfg.Engine.Correlate = correlate
		}
		if cmd.Flags().Changed("full") {
			cfg.Output.FullDetail = fullDetail
		}
		if cmd.Flags().Changed("output") {
			cfg.Output.Format = outFormat
		}
		if cmd.Flags().Changed("report-dir") {
			cfg.Output.ReportDir = reportDir
		}
		if cmd.Flags().Changed("pretty") {
			cfg.Output.Pretty = pretty
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}

		logging.Init(cfg.Output.Format == "stdout", logging.ParseLevel(cfg.LogLevel))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to YAML config file")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVar(&correlate, "correlate", false, "collapse related errors into chain roots")
	pf.BoolVar(&fullDetail, "full", false, "emit dedup, severity, and root-cause detail")
	pf.StringVar(&outFormat, "output", "stdout", "catalogue destination: stdout or dir")
	pf.StringVar(&reportDir, "report-dir", ".", "base directory for report output")
	pf.BoolVar(&pretty, "pretty", false, "indent stdout JSON")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func buildEngine() *engine.Engine {
	opts := []engine.Option{
		engine.WithCorrelation(cfg.Engine.Correlate),
	}
	if len(cfg.Engine.NoisePatterns) > 0 {
		opts = append(opts, engine.WithNoisePatterns(cfg.Engine.NoisePatterns...))
	}
	return engine.New(opts...)
}

func buildOutput() (output.Output, error) {
	switch cfg.Output.Format {
	case "stdout":
		return stdout.New(cfg.Output.FullDetail, cfg.Output.Pretty), nil
	case "dir":
		return file.New(cfg.Output.ReportDir, file.WithFullDetail(cfg.Output.FullDetail)), nil
	case "both":
		return multi.New(
			stdout.New(cfg.Output.FullDetail, cfg.Output.Pretty),
			file.New(cfg.Output.ReportDir, file.WithFullDetail(cfg.Output.FullDetail)),
		), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", cfg.Output.Format)
	}
}
