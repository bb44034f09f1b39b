/*
Package runner drives a single interactive algorithm run.

It is the bridge between an Algorithm and the outside world: it asks for the
algorithm's inputs through a pluggable IOHandler, streams printed lines back as
they are produced, and cancels the run when the process receives an interrupt.

# Key Components

  - Runner: prompts, starts the run, waits for it and reports the final snapshot.
  - IOHandler: decouples how values are read and output is shown.
  - TextHandler: prompts on a terminal, one line per input.
  - JSONHandler: JSON-Lines events for machine callers.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithLogger(logger),
	)

	snap, err := r.Run(ctx, alg)
*/
package runner
