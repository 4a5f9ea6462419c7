package foam

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// ProcessSpec describes one external tool invocation.
type ProcessSpec struct {
	Command    string
	Args       []string
	Dir        string // working directory, usually the case directory
	StdoutPath string // capture file for stdout; empty means inherit
	StderrPath string // capture file for stderr; empty means inherit
}

// Runner executes external solver and utility processes. Implementations
// block until the process exits and return an error for any non-zero exit.
type Runner interface {
	Run(ctx context.Context, spec ProcessSpec) error
}

// ExecRunner runs processes with os/exec. The zero value is usable; Log may
// be set for per-invocation debug output.
type ExecRunner struct {
	Log *zap.Logger
}

// Run starts the process described by spec and waits for it. Cancelling ctx
// kills the process. Failures are fatal by contract: a solver that exits
// non-zero has diverged or crashed, and retrying it cannot help.
func (r *ExecRunner) Run(ctx context.Context, spec ProcessSpec) error {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir

	var stdout io.Writer = os.Stdout
	if spec.StdoutPath != "" {
		f, err := os.Create(spec.StdoutPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", spec.StdoutPath, err)
		}
		defer f.Close()
		stdout = f
	}
	var stderr io.Writer = os.Stderr
	if spec.StderrPath != "" {
		f, err := os.Create(spec.StderrPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", spec.StderrPath, err)
		}
		defer f.Close()
		stderr = f
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.logger().Debug("running external tool",
		zap.String("command", spec.Command),
		zap.Strings("args", spec.Args),
		zap.String("dir", spec.Dir))

	if err := cmd.Run(); err != nil {
		if spec.StderrPath != "" {
			return fmt.Errorf("%s in %s: %w (stderr captured in %s)",
				spec.Command, spec.Dir, err, spec.StderrPath)
		}
		return fmt.Errorf("%s in %s: %w", spec.Command, spec.Dir, err)
	}
	return nil
}

func (r *ExecRunner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
