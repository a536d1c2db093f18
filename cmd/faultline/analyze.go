package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/knersus/faultline/internal/pipeline"
	"github.com/knersus/faultline/internal/source"
	"github.com/knersus/faultline/internal/summary"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <logfile>",
	Short: "Analyze a single capture log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		reports, err := p.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		// The executive summary goes to stderr so stdout stays a clean
		// catalogue stream.
		for _, report := range reports {
			if err := summary.RenderTerminal(os.Stderr, report); err != nil {
				return err
			}
		}
		return nil
	},
}
