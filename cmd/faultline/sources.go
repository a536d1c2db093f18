package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/knersus/faultline/internal/source"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered capture source providers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		names := source.Providers()
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
