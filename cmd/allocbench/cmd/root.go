package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "allocbench",
	Short: "Benchmarks allocator scalability across thread counts",
	Long: `allocbench measures the per-operation cost of acquiring and
releasing pages from an allocator while the number of concurrently
allocating threads grows, and publishes one CSV row per
(thread count, iteration) run.`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
