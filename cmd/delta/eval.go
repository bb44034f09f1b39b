package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/delta/internal/cli"
	"github.com/aretw0/delta/pkg/token"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression",
	Long: `Parses and evaluates one expression. Variables are bound with --set; their
values are expressions too. Comparisons also report whether they hold.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringArray("set")
		simplify, _ := cmd.Flags().GetBool("simplify")

		values, err := cli.ParseValues(pairs)
		if err != nil {
			return err
		}
		vars := token.Bind(values)

		mode := token.ModeEvaluate
		if simplify {
			mode = token.ModeSimplify
		}
		res := token.Parse(strings.Join(args, " ")).Compute(vars, mode)
		if token.IsSyntaxError(res) {
			return errors.New("syntax error")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.String())
		if eq, ok := res.(token.Equation); ok {
			fmt.Fprintln(out, eq.IsTrue(vars))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringArray("set", nil, "Bind a variable (name=expression), repeatable")
	evalCmd.Flags().Bool("simplify", false, "Only simplify, as set and print do")
}
