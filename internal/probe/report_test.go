package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/vkendeavour/vkbuild/internal/command"
	"github.com/vkendeavour/vkbuild/internal/config"
)

// newTestReporter wires a Reporter to fakes: cmake and vulkaninfo are
// installed, ninja is not, glslc cannot report a version.
func newTestReporter(loadable string) *Reporter {
	paths := fakePath(map[string]string{
		"cmake":      "/usr/bin/cmake",
		"vulkaninfo": "/usr/bin/vulkaninfo",
		"glslc":      "/usr/bin/glslc",
	})
	runner := &fakeRunner{results: map[string]*command.Result{
		"/usr/bin/cmake":      output("cmake version 3.16.3\n"),
		"/usr/bin/vulkaninfo": output(summaryOutput),
		"/usr/bin/glslc":      {ExitCode: 2},
	}}
	d := config.Default("/proj").Doctor
	d.Tools = []string{"cmake", "ninja", "glslc"}
	d.Requirements = map[string]string{"cmake": ">= 3.20", "ninja": ">= 1.10"}
	d.MinInstanceVersion = "1.3.0"

	r := NewReporter(d, runner)
	r.Resolver.LookPath = paths
	r.Diagnostic.LookPath = paths
	r.LoaderCandidates = []string{"libvulkan.so.1", "libvulkan.so"}
	r.Open = func(name string) (func() error, error) {
		if name == loadable {
			return nil, nil
		}
		return nil, errors.New("not loadable")
	}
	return r
}

func TestReport(t *testing.T) {
	rep := newTestReporter("libvulkan.so").Report(context.Background())

	if lib, found := rep.Loader.Get(); !found || lib != "libvulkan.so" {
		t.Errorf("Loader = %q, %v", lib, found)
	}
	if !rep.Diagnostics.Found() {
		t.Fatalf("Diagnostics absent: %s", rep.Diagnostics.Reason())
	}
	if v, _ := rep.InstanceVersion.Get(); v != "1.3.250" {
		t.Errorf("InstanceVersion = %q", v)
	}
	if rep.InstanceRequirement == nil || rep.InstanceRequirement.Status != Satisfied {
		t.Errorf("InstanceRequirement = %+v", rep.InstanceRequirement)
	}
	if !rep.GPU.Complete() {
		t.Errorf("GPU = %v", rep.GPU)
	}

	if len(rep.Toolchain) != 3 {
		t.Fatalf("Toolchain has %d entries, want 3", len(rep.Toolchain))
	}
	cmake, _ := rep.Tool("cmake")
	if !cmake.Executable.Found() {
		t.Errorf("cmake not found")
	}
	if cmake.Requirement == nil || cmake.Requirement.Status != Unsatisfied {
		t.Errorf("cmake requirement = %+v, want unsatisfied", cmake.Requirement)
	}
	ninja, _ := rep.Tool("ninja")
	if ninja.Executable.Found() {
		t.Errorf("ninja found")
	}
	if ninja.Requirement == nil || ninja.Requirement.Status != Unchecked {
		t.Errorf("ninja requirement = %+v, want unchecked", ninja.Requirement)
	}
	glslc, _ := rep.Tool("glslc")
	if glslc.Executable.Found() || glslc.Requirement != nil {
		t.Errorf("glslc = %+v", glslc)
	}
	if _, found := rep.Tool("clang++"); found {
		t.Errorf("Tool returned an entry that was not probed")
	}
}

func TestReportSoftFailures(t *testing.T) {
	r := newTestReporter("")
	r.Diagnostic.LookPath = fakePath(nil)
	rep := r.Report(context.Background())

	if rep.Loader.Found() {
		t.Error("loader reported as found")
	}
	if rep.Diagnostics.Found() || rep.InstanceVersion.Found() {
		t.Error("diagnostics reported as found")
	}
	if rep.InstanceRequirement == nil || rep.InstanceRequirement.Status != Unchecked {
		t.Errorf("InstanceRequirement = %+v, want unchecked", rep.InstanceRequirement)
	}
	if len(rep.GPU) != 0 {
		t.Errorf("GPU = %v, want empty", rep.GPU)
	}
	// Toolchain probes still ran.
	if len(rep.Toolchain) != 3 {
		t.Fatalf("Toolchain has %d entries, want 3", len(rep.Toolchain))
	}
}
