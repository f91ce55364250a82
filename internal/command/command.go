// Package command runs external tools synchronously and reports how they exited.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/qiniu/x/log"
)

// Capture selects what happens with the output of a command.
type Capture int

const (
	// Stream forwards stdout and stderr to the writers of the Command
	// (the process' own streams when unset).
	Stream Capture = iota
	// CaptureStdout collects stdout into Result.Output and drops stderr
	// unless Command.Stderr is set.
	CaptureStdout
	// CaptureCombined collects stdout and stderr into Result.Output.
	CaptureCombined
)

// Command describes one invocation of an external tool.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Capture Capture

	Stdout io.Writer
	Stderr io.Writer
}

// String returns the command line as typed in a shell, without quoting.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is produced by every invocation and consumed immediately by the
// caller to decide whether to continue.
type Result struct {
	ExitCode int
	Output   []byte
}

// Succeeded reports whether the tool exited with status 0.
func (r *Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Runner runs a command and blocks until it exits.
//
// A non-zero exit is not an error: it is reported through Result.ExitCode.
// The error return is reserved for commands that could not be started at all.
type Runner interface {
	Run(ctx context.Context, cmd *Command) (*Result, error)
}

// Exec is the Runner backed by os/exec.
type Exec struct{}

var _ Runner = Exec{}

func (Exec) Run(ctx context.Context, c *Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var buf bytes.Buffer
	switch c.Capture {
	case CaptureStdout:
		cmd.Stdout = &buf
		cmd.Stderr = writerOr(c.Stderr, io.Discard)
	case CaptureCombined:
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	default:
		cmd.Stdout = writerOr(c.Stdout, os.Stdout)
		cmd.Stderr = writerOr(c.Stderr, os.Stderr)
	}

	log.Debugf("command: exec %q in %q", c.String(), c.Dir)
	err := cmd.Run()
	res := &Result{Output: buf.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			if res.ExitCode == 0 {
				// killed by a signal
				res.ExitCode = -1
			}
			log.Debugf("command: %s exited with %d", c.Name, res.ExitCode)
			return res, nil
		}
		return nil, fmt.Errorf("run %s: %w", c.Name, err)
	}
	return res, nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
