package main

import (
	"fmt"
	"os"

	"github.com/aretw0/delta/internal/cli"
	"github.com/aretw0/delta/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|id>...",
	Short: "Check algorithms for errors",
	Long:  `Compiles each program and reports expressions that do not parse and invalid variable names.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		failed := 0
		for _, source := range args {
			if err := validateOne(cmd, s, source); err != nil {
				fmt.Fprintf(out, "%s: %v\n", source, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "%s: valid\n", source)
		}
		if failed > 0 {
			return fmt.Errorf("validation failed for %d of %d algorithms", failed, len(args))
		}
		return nil
	},
}

func validateOne(cmd *cobra.Command, s *cli.Stack, source string) error {
	if data, err := os.ReadFile(source); err == nil {
		return validator.ValidateProgram(string(data))
	}
	alg, err := cli.Resolve(cmd.Context(), s.Engine, source)
	if err != nil {
		return err
	}
	return validator.Validate(alg.Root)
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
