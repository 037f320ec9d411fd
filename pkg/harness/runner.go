package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	dperrors "github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
)

// Command is one external process invocation
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Env     map[string]string
	Timeout time.Duration
}

// String returns a printable, shell-safe form of the command
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Output is what a finished command produced
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout followed by stderr, trimmed
func (o Output) Combined() string {
	return strings.TrimSpace(strings.TrimSpace(o.Stdout) + "\n" + strings.TrimSpace(o.Stderr))
}

// Runner executes external commands
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// NewExecRunner returns the default runner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd and waits for it, honouring cmd.Timeout
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	logging.LogCommand(cmd.Name, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = os.Environ()
	for k, v := range cmd.Env {
		c.Env = append(c.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if c.ProcessState != nil {
		out.ExitCode = c.ProcessState.ExitCode()
	}
	if err == nil {
		return out, nil
	}

	full := cmd.String()
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return out, dperrors.Newf(dperrors.ErrBuild, "command timed out after %s: %s", cmd.Timeout, full).
			WithDetail("command", full)
	case errors.Is(ctx.Err(), context.Canceled):
		return out, dperrors.Newf(dperrors.ErrBuild, "command canceled: %s", full).
			WithDetail("command", full)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, dperrors.Wrapf(err, dperrors.ErrBuild, "command failed (exit=%d): %s", out.ExitCode, full).
			WithDetail("command", full).
			WithDetail("exit_code", out.ExitCode)
	}
	return out, dperrors.Wrapf(err, dperrors.ErrBuild, "failed to run command: %s", full).
		WithDetail("command", full)
}

// SplitCommand splits a shell-style command line into arguments
func SplitCommand(line string) ([]string, error) {
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, dperrors.Wrapf(err, dperrors.ErrInvalidInput, "cannot parse command %q", line)
	}
	if len(args) == 0 {
		return nil, dperrors.Newf(dperrors.ErrInvalidInput, "empty command")
	}
	return args, nil
}

func tail(s string, lines int) string {
	parts := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(parts) <= lines {
		return strings.Join(parts, "\n")
	}
	return fmt.Sprintf("... (%d lines omitted)\n%s", len(parts)-lines, strings.Join(parts[len(parts)-lines:], "\n"))
}
