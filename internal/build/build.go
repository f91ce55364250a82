// Package build drives a build configuration through clean, configure, build
// and asset staging, stopping at the first failure.
package build

import (
	"context"
	"fmt"
	"io"

	"github.com/qiniu/x/log"
	"github.com/vkendeavour/vkbuild/internal/builddir"
	"github.com/vkendeavour/vkbuild/internal/command"
	"github.com/vkendeavour/vkbuild/internal/config"
	"github.com/vkendeavour/vkbuild/internal/stage"
	"github.com/vkendeavour/vkbuild/pkgs/buildsys"
	"github.com/vkendeavour/vkbuild/pkgs/buildsys/cmake"
)

// State is a step of the pipeline.
type State int

const (
	Idle State = iota
	Cleaning
	Configuring
	Building
	Staging
	Done
	Failed
)

var stateNames = [...]string{"idle", "cleaning", "configuring", "building", "staging", "done", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// StageError is returned when a stage fails. Either Err is set (the stage
// could not run) or ExitCode holds the non-zero status of Command.
type StageError struct {
	Stage    State
	Command  string
	ExitCode int
	Err      error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return e.Stage.String() + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: %q exited with status %d", e.Stage, e.Command, e.ExitCode)
}

func (e *StageError) Unwrap() error { return e.Err }

// Options tune a single Run.
type Options struct {
	// Incremental keeps an existing output directory instead of recreating it.
	Incremental bool
}

// Orchestrator owns the output directory of a configuration while it runs.
// It is not safe for concurrent use.
type Orchestrator struct {
	BuildSystem buildsys.BuildSystem
	Runner      command.Runner
	Stager      *stage.Stager
	// Extensions selects the staged assets.
	Extensions []string
	// Out receives progress lines.
	Out io.Writer
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
	// LookPath, when set, is used to check that every tool of BuildSystem
	// is installed before anything is touched.
	LookPath func(file string) (string, error)

	state State
}

// New returns an Orchestrator configured from cfg: a cmake build with the
// configured generator, compilers and build tool.
func New(cfg *config.Config, runner command.Runner, out io.Writer) *Orchestrator {
	if out == nil {
		out = io.Discard
	}
	b := cfg.Build
	bs := cmake.New(cfg.Root).
		Generator(b.Generator).
		Compilers(b.CCompiler, b.CXXCompiler).
		MessageLogLevel(b.MessageLogLevel).
		BuildTool(b.Tool)
	for k, v := range b.Defines {
		switch v := v.(type) {
		case bool:
			bs.DefineBool(k, v)
		case string:
			bs.Define(k, v)
		}
	}
	return &Orchestrator{
		BuildSystem: bs,
		Runner:      runner,
		Stager:      &stage.Stager{Out: out},
		Extensions:  b.ShaderExtensions,
		Out:         out,
	}
}

// State returns the current pipeline state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run checks the build tools when LookPath is set, then executes clean,
// configure, build and stage in order. The first failing
// stage moves the orchestrator to Failed and skips the rest; nothing is
// rolled back.
func (o *Orchestrator) Run(ctx context.Context, bc config.BuildConfiguration, opts Options) error {
	o.state = Idle
	if err := o.preflight(); err != nil {
		o.transition(Failed)
		return err
	}
	stages := []struct {
		state State
		run   func(context.Context, config.BuildConfiguration, Options) error
	}{
		{Cleaning, o.clean},
		{Configuring, o.configure},
		{Building, o.build},
		{Staging, o.stage},
	}
	for _, s := range stages {
		o.transition(s.state)
		if err := s.run(ctx, bc, opts); err != nil {
			o.transition(Failed)
			return err
		}
	}
	o.transition(Done)
	return nil
}

func (o *Orchestrator) transition(to State) {
	from := o.state
	o.state = to
	log.Debugf("build: %s -> %s", from, to)
	if o.OnTransition != nil {
		o.OnTransition(from, to)
	}
}

// preflight reports the first build tool missing from PATH.
func (o *Orchestrator) preflight() error {
	if o.LookPath == nil {
		return nil
	}
	for _, tool := range o.BuildSystem.Tools() {
		path, err := o.LookPath(tool)
		if err != nil {
			return &StageError{Stage: Idle, Command: tool, Err: err}
		}
		log.Debugf("build: using %s", path)
	}
	return nil
}

func (o *Orchestrator) clean(_ context.Context, bc config.BuildConfiguration, opts Options) error {
	if opts.Incremental {
		if err := builddir.Ensure(bc.OutputDir); err != nil {
			return &StageError{Stage: Cleaning, Err: err}
		}
		return nil
	}
	if err := builddir.Reset(bc.OutputDir); err != nil {
		return &StageError{Stage: Cleaning, Err: err}
	}
	fmt.Fprintf(o.Out, "> (Re)created '%s' ...\n", bc.OutputDir)
	return nil
}

func (o *Orchestrator) configure(ctx context.Context, bc config.BuildConfiguration, _ Options) error {
	return o.invoke(ctx, Configuring, o.BuildSystem.ConfigureCommand(bc.OutputDir, bc.Name))
}

func (o *Orchestrator) build(ctx context.Context, bc config.BuildConfiguration, _ Options) error {
	return o.invoke(ctx, Building, o.BuildSystem.BuildCommand(bc.OutputDir))
}

func (o *Orchestrator) stage(_ context.Context, bc config.BuildConfiguration, _ Options) error {
	if _, err := o.Stager.CopyMatching(bc.SourceAssetDir, bc.StagedAssetDir, o.Extensions); err != nil {
		return &StageError{Stage: Staging, Err: err}
	}
	return nil
}

func (o *Orchestrator) invoke(ctx context.Context, st State, cmd *command.Command) error {
	fmt.Fprintf(o.Out, "> %s\n", cmd)
	res, err := o.Runner.Run(ctx, cmd)
	if err != nil {
		fmt.Fprintln(o.Out, "> Command failed, aborting!")
		return &StageError{Stage: st, Command: cmd.String(), Err: err}
	}
	if !res.Succeeded() {
		fmt.Fprintln(o.Out, "> Command failed, aborting!")
		return &StageError{Stage: st, Command: cmd.String(), ExitCode: res.ExitCode}
	}
	return nil
}

// Clean removes the whole build root.
func Clean(cfg *config.Config, out io.Writer) error {
	existed, err := builddir.Remove(cfg.BuildRoot())
	if err != nil {
		return err
	}
	if existed {
		fmt.Fprintf(out, "> Removed directory '%s' ...\n", cfg.BuildRoot())
	} else {
		fmt.Fprintf(out, "> Found no build directory at '%s' ...\n", cfg.BuildRoot())
	}
	return nil
}
