package probe

import (
	"context"
	"errors"
	"os/exec"

	"github.com/vkendeavour/vkbuild/internal/command"
)

// fakeRunner answers commands by the executable path.
type fakeRunner struct {
	results map[string]*command.Result
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, cmd *command.Command) (*command.Result, error) {
	f.calls = append(f.calls, cmd.String())
	if err := f.errs[cmd.Name]; err != nil {
		return nil, err
	}
	if res, ok := f.results[cmd.Name]; ok {
		return res, nil
	}
	return nil, errors.New("unexpected command " + cmd.String())
}

// fakePath resolves names listed in the map to fake absolute paths.
func fakePath(found map[string]string) func(string) (string, error) {
	return func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
}

func output(out string) *command.Result {
	return &command.Result{Output: []byte(out)}
}
