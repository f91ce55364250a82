package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/qiniu/x/log"
	"github.com/vkendeavour/vkbuild/internal/command"
)

// ExecutableInfo describes an executable found on PATH.
type ExecutableInfo struct {
	Path string
	// Version is the first line the executable prints for --version.
	Version string
}

// Resolver locates executables and asks them for their version.
type Resolver struct {
	LookPath func(file string) (string, error)
	Runner   command.Runner
}

// NewResolver returns a Resolver searching the process PATH.
func NewResolver(runner command.Runner) *Resolver {
	return &Resolver{LookPath: exec.LookPath, Runner: runner}
}

// Resolve finds name on PATH and runs "<path> --version". A missing
// executable, or one that cannot report its version, yields an absent result.
func (r *Resolver) Resolve(ctx context.Context, name string) Option[ExecutableInfo] {
	path, err := r.LookPath(name)
	if err != nil {
		log.Debugf("probe: %s: %v", name, err)
		return None[ExecutableInfo]("not found on PATH")
	}
	res, err := r.Runner.Run(ctx, &command.Command{
		Name:    path,
		Args:    []string{"--version"},
		Capture: command.CaptureStdout,
	})
	if err != nil {
		return None[ExecutableInfo](fmt.Sprintf("found at %s, but --version failed: %v", path, err))
	}
	if !res.Succeeded() {
		return None[ExecutableInfo](fmt.Sprintf("found at %s, but --version exited with status %d", path, res.ExitCode))
	}
	return Some(ExecutableInfo{Path: path, Version: firstLine(res.Output)})
}

func firstLine(out []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		return strings.TrimSpace(sc.Text())
	}
	return ""
}
