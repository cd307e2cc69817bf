package doxygen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ddinu/doxybuild/internal/logfields"
)

// DefaultBinary is the extractor executable looked up on PATH.
const DefaultBinary = "doxygen"

// stdinFlag tells doxygen to read its configuration from standard input.
const stdinFlag = "-"

// ExitError reports an extractor process that terminated with a non-zero
// status. The original pipeline ignored the exit status entirely; checking
// it here fails the build at the real fault instead of leaving the renderer
// to proceed with stale or missing extracted data.
type ExitError struct {
	Binary string
	Code   int
	Err    error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Binary, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner launches the extractor process. Abstracted so the pipeline's
// blocking contract is testable without a doxygen binary installed.
type Runner interface {
	Run(ctx context.Context, configText string) error
}

// ExecRunner runs the real extractor binary, piping configuration through
// its standard input and waiting for termination.
type ExecRunner struct {
	Binary string // defaults to DefaultBinary
}

func (r ExecRunner) Run(ctx context.Context, configText string) error {
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, binary, stdinFlag)
	cmd.Stdin = strings.NewReader(configText)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Run starts the child, feeds stdin until consumed, and waits for
	// termination before returning.
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Binary: binary, Code: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("%s command failed: %w", binary, err)
	}
	return nil
}

// Extract resolves the directive list for opts and runs the extractor
// synchronously. Output files land under opts.OutputDir.
func Extract(ctx context.Context, runner Runner, opts Options) error {
	slog.Info("Running Doxygen over library source",
		logfields.InputDir(opts.InputDir),
		logfields.OutputDir(opts.OutputDir))

	if _, err := os.Stat(opts.InputDir); os.IsNotExist(err) {
		// Not fatal here; the extractor itself reports the failure.
		slog.Warn("Extractor input directory does not exist", logfields.InputDir(opts.InputDir))
	}

	return runner.Run(ctx, Join(Directives(opts)))
}
