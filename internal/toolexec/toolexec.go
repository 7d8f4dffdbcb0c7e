// Package toolexec runs the external MINC binaries and reports failures as
// typed errors carrying the command line and exit status.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrExitStatus marks a command that ran and exited non-zero.
var ErrExitStatus = errors.New("non-zero exit status")

// Command describes one external tool invocation.
type Command struct {
	Name string
	Args []string
	// Quiet discards the tool's output instead of attaching it to errors.
	Quiet bool
}

// Argv returns the full argument vector including the program name.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command as a single shell-like line for logs.
func (c Command) String() string {
	parts := c.Argv()
	for i, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\"'&|<>(){}") {
			parts[i] = fmt.Sprintf("%q", p)
		}
	}
	return strings.Join(parts, " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Output   string
	ExitCode int
}

// CommandError reports a failed invocation. ExitCode is -1 when the process
// never started or was killed by a signal.
type CommandError struct {
	Argv     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	cmd := Command{Name: e.Argv[0], Args: e.Argv[1:]}
	if errors.Is(e.Err, ErrExitStatus) {
		return fmt.Sprintf("%s exited with code: %d", cmd, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", cmd, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes external commands. Every call runs the command exactly once.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run blocks until the command exits.
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Result{ExitCode: -1}, &CommandError{Argv: c.Argv(), ExitCode: -1, Err: errors.New("empty command name")}
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	res := Result{ExitCode: exitCode(cmd, err)}
	if !c.Quiet {
		res.Output = strings.TrimSpace(out.String())
	}
	if err == nil {
		return res, nil
	}

	cerr := &CommandError{Argv: c.Argv(), ExitCode: res.ExitCode, Output: res.Output}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && res.ExitCode > 0 {
		cerr.Err = ErrExitStatus
	} else {
		cerr.Err = err
	}
	return res, cerr
}

func exitCode(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}

// Tail returns at most n trailing lines of output for log attributes.
func Tail(output string, n int) string {
	output = strings.TrimSpace(output)
	if output == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
