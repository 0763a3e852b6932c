package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.2.0"

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Retrieves the current version of allocbench",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("allocbench v%s\n", version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
