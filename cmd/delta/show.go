package main

import (
	"fmt"
	"os"

	"github.com/aretw0/delta/internal/cli"
	"github.com/aretw0/delta/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showCmd = &cobra.Command{
	Use:   "show <file|id>",
	Short: "Describe an algorithm",
	Long:  `Prints an algorithm's metadata, inputs, program and notes. Output is styled on terminals and plain markdown otherwise.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		alg, err := cli.Resolve(cmd.Context(), s.Engine, args[0])
		if err != nil {
			return err
		}

		md := tui.Markdown(alg)
		if !raw && cmd.OutOrStdout() == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
			if rendered, err := tui.NewRenderer()(md); err == nil {
				md = rendered
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("raw", false, "Print plain markdown even on a terminal")
}
