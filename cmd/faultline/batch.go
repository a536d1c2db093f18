package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/knersus/faultline/internal/pipeline"
	"github.com/knersus/faultline/internal/source"
	"github.com/knersus/faultline/internal/summary"
)

var batchParallel int

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Analyze every capture log under a directory",
	Long: `batch scans a base directory for monkey_logs_* capture folders and
analyzes every log inside them. A log that fails to load is skipped and
reported; it does not abort the rest of the batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := "."
		if len(args) == 1 {
			baseDir = args[0]
		}
		if cmd.Flags().Changed("parallel") {
			cfg.Batch.Parallelism = batchParallel
		}

		ctor, err := source.Get("file")
		if err != nil {
			return err
		}
		out, err := buildOutput()
		if err != nil {
			return err
		}

		p := pipeline.New(ctor(), buildEngine(), out)
		defer p.Close()

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(os.Stderr),
			spinner.WithSuffix(" analyzing captures..."))
		s.Start()
		result, err := p.RunBatch(cmd.Context(), baseDir, cfg.Batch.Parallelism)
		s.Stop()
		if err != nil {
			return err
		}

		for _, report := range result.Reports {
			if err := summary.RenderTerminal(os.Stderr, report); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr)
		}
		if len(result.Failed) > 0 {
			fmt.Fprintf(os.Stderr, "%d capture(s) failed:\n", len(result.Failed))
			for path, ferr := range result.Failed {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", path, ferr)
			}
		}
		fmt.Fprintf(os.Stderr, "analyzed %d capture(s)\n", len(result.Reports))
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchParallel, "parallel", 4, "concurrent capture analyses")
}
