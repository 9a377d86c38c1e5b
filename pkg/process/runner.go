package process

import (
	"bytes"
	"context"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"os"
	"os/exec"
	"time"
)

// Result is the captured outcome of a finished subprocess. ExitCode is zero
// on success; a nonzero exit is not an error at this layer because callers
// inspect stderr to decide what it means.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// Exec runs commands with exec.CommandContext under a per-call timeout, so a
// stalled tool kills only its own request.
type Exec struct {
	Timeout time.Duration
}

func (e Exec) Run(ctx context.Context, name string, args ...string) (Result, error) {
	logger := logging.Logger("process").With("command", name)

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.With("args", args).Debug("spawning process")
	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return Result{}, errors.Wrapf(ctx.Err(), "%s interrupted", name)
		}

		logger.With("exitCode", exitErr.ExitCode()).Debug("process exited nonzero")
		return Result{stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode()}, nil
	}

	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to run %s", name)
	}

	return Result{stdout.Bytes(), stderr.Bytes(), 0}, nil
}
