package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/delta"
	"github.com/aretw0/delta/internal/compiler"
	"github.com/aretw0/delta/internal/presentation/tui"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	// Source is a program file or the local ID of a stored algorithm.
	Source        string
	Values        map[string]string
	Headless      bool
	JSON          bool
	Quiet         bool
	ShowVariables bool

	In  io.Reader
	Out io.Writer
}

// Resolve loads the algorithm named by source. An existing file is compiled as
// program text; anything else must be a stored algorithm ID.
func Resolve(ctx context.Context, eng *delta.Engine, source string) (*algorithm.Algorithm, error) {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		return LoadFile(source)
	}

	id, err := strconv.ParseInt(source, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is neither a program file nor an algorithm id", source)
	}
	lib, err := eng.List(ctx)
	if err != nil {
		return nil, err
	}
	if alg, ok := lib.Find(id); ok {
		return alg, nil
	}
	return nil, fmt.Errorf("algorithm %d: %w", id, domain.ErrAlgorithmNotFound)
}

// LoadFile compiles a program file into an unsaved algorithm named after the
// file.
func LoadFile(path string) (*algorithm.Algorithm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := compiler.Compile(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return algorithm.New(0, 0, true, name, info.ModTime(), "", root), nil
}

// Execute runs alg through the engine with the IO mode picked by opts. The
// snapshot is nil when prompting was interrupted before the run started.
func Execute(ctx context.Context, eng *delta.Engine, logger *slog.Logger, alg *algorithm.Algorithm, opts RunOptions) (*domain.Snapshot, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, out)
	} else {
		th := runner.NewTextHandler(opts.In, out, runner.WithVariables(opts.ShowVariables))
		handler = th
		if !opts.Headless && !opts.Quiet {
			tui.PrintBanner(out)
			printSystemMessage(out, "Running '%s'.", alg.Name)
		}
	}

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithHeadless(opts.Headless),
		runner.WithValues(opts.Values),
		runner.WithExecutor(eng.Start),
	)

	snap, err := r.Run(ctx, alg)
	if err := handleExecutionError(err); err != nil {
		return snap, err
	}
	if snap == nil {
		logger.Info("run interrupted before start", "algorithm", alg.Name)
		return nil, nil
	}
	logger.Info("run finished", "run_id", snap.RunID, "algorithm", alg.Name, "cancelled", snap.Cancelled)
	return snap, nil
}
