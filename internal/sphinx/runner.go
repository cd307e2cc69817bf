// Package sphinx invokes the external documentation renderer over the docs
// source tree plus the extractor output referenced from the generated
// configuration.
package sphinx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/ddinu/doxybuild/internal/logfields"
)

// DefaultBinary is the renderer executable looked up on PATH.
const DefaultBinary = "sphinx-build"

// Runner invokes the renderer. Abstracted for pipeline tests.
type Runner interface {
	Run(ctx context.Context, sourceDir, outputDir string) error
}

// ExecRunner runs the real renderer binary.
type ExecRunner struct {
	Binary  string // defaults to DefaultBinary
	Builder string // defaults to "html"
}

func (r ExecRunner) Run(ctx context.Context, sourceDir, outputDir string) error {
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	builder := r.Builder
	if builder == "" {
		builder = "html"
	}

	cmd := exec.CommandContext(ctx, binary, "-b", builder, sourceDir, outputDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Info("Running renderer to produce browsable site",
		logfields.InputDir(sourceDir),
		logfields.OutputDir(outputDir))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with status %d: %w", binary, exitErr.ExitCode(), err)
		}
		return fmt.Errorf("%s command failed: %w", binary, err)
	}
	return nil
}

// Available reports whether the renderer binary can be found on PATH.
func Available(binary string) bool {
	if binary == "" {
		binary = DefaultBinary
	}
	_, err := exec.LookPath(binary)
	return err == nil
}
