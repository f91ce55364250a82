package build

import (
	"context"

	"github.com/vkendeavour/vkbuild/internal/command"
)

// fakeRunner records commands and exits with the configured status per
// command name.
type fakeRunner struct {
	exit  map[string]int
	err   map[string]error
	calls []string
	dirs  []string
}

func (f *fakeRunner) Run(ctx context.Context, cmd *command.Command) (*command.Result, error) {
	f.calls = append(f.calls, cmd.String())
	f.dirs = append(f.dirs, cmd.Dir)
	if err := f.err[cmd.Name]; err != nil {
		return nil, err
	}
	return &command.Result{ExitCode: f.exit[cmd.Name]}, nil
}
