// Package execrunner runs external processes with output capture, environment
// overrides and stdin support.
package execrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

// stderrTail bounds how much stderr is carried inside a CommandError.
const stderrTail = 2048

type Runner struct {
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

// Option is a function that modifies a Runner.
type Option func(*Runner)

// WithConsole sets where streamed commands mirror their output.
func WithConsole(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.CommandRunner = (*Runner)(nil)

// Run executes cmd and waits for it. A non-zero exit returns the captured
// result together with an error wrapping *domain.CommandError.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	op := "exec." + cmd.Name
	if strings.TrimSpace(cmd.Name) == "" {
		return domain.CommandResult{ExitCode: -1}, &domain.OpError{
			Op:   "exec",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("empty command: %w", domain.ErrInvalidConfig),
		}
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	r.setupCommand(c, cmd)
	stdoutBuf, stderrBuf := r.setupOutputCapture(c, cmd.Stream)

	start := time.Now()
	err := c.Run()
	res := domain.CommandResult{
		ExitCode: exitCode(err),
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	r.log.Debug("exec.run", "cmd", cmd.Name, "args", len(cmd.Args), "dir", cmd.Dir, "exit", res.ExitCode, "duration", res.Duration)

	if err == nil {
		return res, nil
	}

	if ctx.Err() != nil {
		return res, &domain.OpError{Op: op, Kind: domain.KindExecution, Err: fmt.Errorf("%w: %w", domain.ErrExecution, ctx.Err())}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &domain.OpError{
			Op:   op,
			Kind: domain.KindExecution,
			Err: &domain.CommandError{
				Name:     cmd.Name,
				ExitCode: res.ExitCode,
				Stderr:   tail(res.Stderr),
			},
		}
	}

	kind := domain.KindExecution
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		kind = domain.KindNotFound
	}
	return res, &domain.OpError{Op: op, Kind: kind, Err: fmt.Errorf("%w: %w", domain.ErrExecution, err)}
}

// setupCommand configures working directory, environment and input.
func (r *Runner) setupCommand(c *exec.Cmd, cmd domain.Command) {
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}

	if len(cmd.Env) > 0 {
		c.Env = os.Environ()
		for k, v := range cmd.Env {
			c.Env = append(c.Env, k+"="+v)
		}
	}

	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}
}

// setupOutputCapture always captures, and mirrors to the console when streaming.
func (r *Runner) setupOutputCapture(c *exec.Cmd, stream bool) (*bytes.Buffer, *bytes.Buffer) {
	var stdoutBuf, stderrBuf bytes.Buffer

	stdoutWriters := []io.Writer{&stdoutBuf}
	stderrWriters := []io.Writer{&stderrBuf}
	if stream {
		if r.stdout != nil {
			stdoutWriters = append(stdoutWriters, r.stdout)
		}
		if r.stderr != nil {
			stderrWriters = append(stderrWriters, r.stderr)
		}
	}

	c.Stdout = io.MultiWriter(stdoutWriters...)
	c.Stderr = io.MultiWriter(stderrWriters...)
	return &stdoutBuf, &stderrBuf
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.ExitCode()
	default:
		return -1
	}
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrTail {
		return s
	}
	return "..." + s[len(s)-stderrTail:]
}
