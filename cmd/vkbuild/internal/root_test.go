package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vkendeavour/vkbuild/internal/command"
)

type recordingRunner struct {
	exit  map[string]int
	calls []string
}

func (r *recordingRunner) Run(ctx context.Context, cmd *command.Command) (*command.Result, error) {
	r.calls = append(r.calls, cmd.Name)
	return &command.Result{ExitCode: r.exit[cmd.Name]}, nil
}

// missingTools lists the executables the fake lookPath does not find.
var missingTools = map[string]bool{}

// execute runs the CLI against a fresh project with r as runner.
func execute(t *testing.T, r command.Runner, args ...string) (string, string, error) {
	t.Helper()
	root := t.TempDir()
	shader := filepath.Join(root, "Applications", "Sandbox", "Shaders", "tri.spv")
	if err := os.MkdirAll(filepath.Dir(shader), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(shader, []byte("spv"), 0o644); err != nil {
		t.Fatal(err)
	}

	saved, savedLookPath := runner, lookPath
	runner = r
	lookPath = func(file string) (string, error) {
		if missingTools[file] {
			return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
		}
		return "/usr/bin/" + file, nil
	}
	buildClean, buildDebug, buildRelease, buildIncremental = false, false, false, false
	doctorFormat = "text"
	t.Cleanup(func() { runner, lookPath = saved, savedLookPath })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--project", root))
	err := rootCmd.Execute()
	return root, out.String(), err
}

func TestBuildDebugAndRelease(t *testing.T) {
	r := &recordingRunner{}
	root, out, err := execute(t, r, "build", "-c", "-r", "-d")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"cmake", "ninja", "cmake", "ninja"}, r.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	debug := strings.Index(out, "Building Debug")
	release := strings.Index(out, "Building Release")
	if debug < 0 || release < 0 || debug > release {
		t.Errorf("Debug must be built before Release:\n%s", out)
	}
	for _, name := range []string{"Debug", "Release"} {
		staged := filepath.Join(root, "Build", name, "Applications", "Sandbox", "Shaders", "tri.spv")
		if _, err := os.Stat(staged); err != nil {
			t.Errorf("%s: shader not staged: %v", name, err)
		}
	}
}

func TestBuildFailureStopsRun(t *testing.T) {
	r := &recordingRunner{exit: map[string]int{"cmake": 1}}
	root, out, err := execute(t, r, "build", "-d", "-r")
	if err == nil {
		t.Fatal("build succeeded with a failing configure")
	}
	if diff := cmp.Diff([]string{"cmake"}, r.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	if strings.Contains(out, "Building Release") {
		t.Errorf("Release started after Debug failed:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "Build", "Release")); !os.IsNotExist(err) {
		t.Errorf("Release directory created after Debug failed")
	}
}

func TestBuildMissingToolTouchesNothing(t *testing.T) {
	missingTools["ninja"] = true
	t.Cleanup(func() { delete(missingTools, "ninja") })

	r := &recordingRunner{}
	root, out, err := execute(t, r, "build", "-d")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("build error = %v, want a missing tool\n%s", err, out)
	}
	if len(r.calls) != 0 {
		t.Errorf("commands ran without ninja on PATH: %v", r.calls)
	}
	if _, err := os.Stat(filepath.Join(root, "Build")); !os.IsNotExist(err) {
		t.Errorf("build directory created without ninja on PATH")
	}
}

func TestBuildNothingToDo(t *testing.T) {
	if _, _, err := execute(t, &recordingRunner{}, "build"); err == nil {
		t.Fatal("build without actions succeeded")
	}
}

func TestDoctorNeverFails(t *testing.T) {
	// Every version query fails: all tools are reported, none aborts.
	r := &recordingRunner{exit: map[string]int{}}
	_, out, err := execute(t, alwaysFail{r}, "doctor", "--format", "yaml")
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	for _, want := range []string{"toolchain:", "loader:", "diagnostics:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

type alwaysFail struct{ *recordingRunner }

func (a alwaysFail) Run(ctx context.Context, cmd *command.Command) (*command.Result, error) {
	a.calls = append(a.calls, cmd.Name)
	return &command.Result{ExitCode: 1}, nil
}

func TestStats(t *testing.T) {
	_, out, err := execute(t, &recordingRunner{}, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Engine/Core") {
		t.Errorf("output lacks the configured directories:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	_, out, err := execute(t, &recordingRunner{}, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	want := "vkbuild " + buildVersion() + " "
	if !strings.HasPrefix(out, want) {
		t.Errorf("output = %q, want prefix %q", out, want)
	}
	if rootCmd.Version == "" {
		t.Error("root command has no version")
	}
}
