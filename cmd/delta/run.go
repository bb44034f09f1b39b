package main

import (
	"errors"

	"github.com/aretw0/delta/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file|id>",
	Short: "Run an algorithm",
	Long: `Runs a program file or a stored algorithm. Inputs are prompted for unless
they are preset with --set or the run is headless, in which case defaults apply.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		watchMode, _ := cmd.Flags().GetBool("watch")
		showVars, _ := cmd.Flags().GetBool("vars")
		pairs, _ := cmd.Flags().GetStringArray("set")

		if watchMode && (headless || jsonMode) {
			return errors.New("--watch cannot be combined with --headless or --json")
		}
		values, err := cli.ParseValues(pairs)
		if err != nil {
			return err
		}

		s, err := openStack()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := cli.RunOptions{
			Source:        args[0],
			Values:        values,
			Headless:      headless,
			JSON:          jsonMode,
			ShowVariables: showVars,
			In:            cmd.InOrStdin(),
			Out:           cmd.OutOrStdout(),
		}
		if watchMode {
			return cli.RunWatch(cmd.Context(), s.Engine, s.Logger, args[0], opts)
		}

		alg, err := cli.Resolve(cmd.Context(), s.Engine, args[0])
		if err != nil {
			return err
		}
		_, err = cli.Execute(cmd.Context(), s.Engine, s.Logger, alg, opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArray("set", nil, "Preset an input value (name=value), repeatable")
	runCmd.Flags().Bool("headless", false, "Run without prompting; unset inputs keep their defaults")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().BoolP("watch", "w", false, "Re-run a program file whenever it changes")
	runCmd.Flags().Bool("vars", false, "Print the final variables")
}
