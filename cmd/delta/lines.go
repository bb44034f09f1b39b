package main

import (
	"encoding/json"

	"github.com/aretw0/delta/internal/cli"
	"github.com/aretw0/delta/internal/presentation/tui"
	httpadapter "github.com/aretw0/delta/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var linesCmd = &cobra.Command{
	Use:   "lines <file|id>",
	Short: "Print the editor lines of an algorithm",
	Long:  `Prints the settings lines and the flat, index-addressable editor lines an editor would display.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")

		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		alg, err := cli.Resolve(cmd.Context(), s.Engine, args[0])
		if err != nil {
			return err
		}

		if jsonMode {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(httpadapter.LinesResponse{Settings: alg.Settings(), Lines: alg.EditorLines()})
		}
		tui.WriteLines(cmd.OutOrStdout(), alg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linesCmd)
	linesCmd.Flags().Bool("json", false, "Print the lines as JSON")
}
