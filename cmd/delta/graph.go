package main

import (
	"fmt"

	"github.com/aretw0/delta/internal/cli"
	"github.com/aretw0/delta/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file|id>",
	Short: "Export the algorithm as a Mermaid flowchart",
	Long:  `Outputs a Mermaid diagram (graph TD) of the action tree. Node IDs are editor line indexes.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		highlight, _ := cmd.Flags().GetIntSlice("highlight")
		current, _ := cmd.Flags().GetInt("current")

		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		alg, err := cli.Resolve(cmd.Context(), s.Engine, args[0])
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if len(highlight) > 0 || current >= 0 {
			overlay = &graph.Overlay{Visited: highlight, Current: current}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(alg, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().IntSlice("highlight", nil, "Editor lines to mark as visited")
	graphCmd.Flags().Int("current", -1, "Editor line to mark as current")
}
