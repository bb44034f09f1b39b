package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/delta"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of delta",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "delta version %s\n", strings.TrimSpace(delta.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
