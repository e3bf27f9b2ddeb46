// Package launch hands a written run plan to the external trainer.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"tactile/internal/ctxlog"
)

type Launcher interface {
	Launch(ctx context.Context, planPath string) error
}

// ExecLauncher runs Command with Args followed by "--plan <path>".
// An empty Command only logs the plan location.
type ExecLauncher struct {
	Command string
	Args    []string
	Dir     string
	Stdout  io.Writer
	Stderr  io.Writer
}

var ErrTrainerFailed = errors.New("trainer exited with an error")

func (l ExecLauncher) Launch(ctx context.Context, planPath string) error {
	logger := ctxlog.FromContext(ctx)
	if l.Command == "" {
		logger.Info("dry run, trainer not started", "plan", planPath)
		return nil
	}

	args := append(append([]string(nil), l.Args...), "--plan", planPath)
	cmd := exec.CommandContext(ctx, l.Command, args...)
	cmd.Dir = l.Dir
	cmd.Stdout = orDefault(l.Stdout, os.Stdout)
	cmd.Stderr = orDefault(l.Stderr, os.Stderr)

	logger.Info("starting trainer", "command", l.Command, "args", args)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %v", ErrTrainerFailed, l.Command, err)
	}
	logger.Info("trainer finished", "command", l.Command)
	return nil
}

func orDefault(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
