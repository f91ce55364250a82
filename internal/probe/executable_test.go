package probe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vkendeavour/vkbuild/internal/command"
)

func TestResolveFound(t *testing.T) {
	runner := &fakeRunner{results: map[string]*command.Result{
		"/usr/bin/cmake": output("cmake version 3.28.1\n\nCMake suite maintained and supported by Kitware (kitware.com/cmake).\n"),
	}}
	r := &Resolver{LookPath: fakePath(map[string]string{"cmake": "/usr/bin/cmake"}), Runner: runner}

	info, found := r.Resolve(context.Background(), "cmake").Get()
	if !found {
		t.Fatal("cmake not found")
	}
	want := ExecutableInfo{Path: "/usr/bin/cmake", Version: "cmake version 3.28.1"}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Fatalf("info (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/usr/bin/cmake --version"}, runner.calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
}

func TestResolveMissing(t *testing.T) {
	runner := &fakeRunner{}
	r := &Resolver{LookPath: fakePath(nil), Runner: runner}
	res := r.Resolve(context.Background(), "ninja")
	if res.Found() {
		t.Fatal("missing executable reported as found")
	}
	if res.Reason() != "not found on PATH" {
		t.Errorf("Reason() = %q", res.Reason())
	}
	if len(runner.calls) != 0 {
		t.Errorf("ran %v for a missing executable", runner.calls)
	}
}

func TestResolveVersionFailure(t *testing.T) {
	paths := fakePath(map[string]string{"vulkaninfo": "/usr/bin/vulkaninfo", "broken": "/opt/broken"})

	t.Run("non-zero exit", func(t *testing.T) {
		runner := &fakeRunner{results: map[string]*command.Result{
			"/usr/bin/vulkaninfo": {ExitCode: 1},
		}}
		res := (&Resolver{LookPath: paths, Runner: runner}).Resolve(context.Background(), "vulkaninfo")
		if res.Found() {
			t.Fatal("reported as found")
		}
		if !strings.Contains(res.Reason(), "status 1") || !strings.Contains(res.Reason(), "/usr/bin/vulkaninfo") {
			t.Errorf("Reason() = %q", res.Reason())
		}
	})

	t.Run("start failure", func(t *testing.T) {
		runner := &fakeRunner{errs: map[string]error{"/opt/broken": errors.New("exec format error")}}
		res := (&Resolver{LookPath: paths, Runner: runner}).Resolve(context.Background(), "broken")
		if res.Found() {
			t.Fatal("reported as found")
		}
		if !strings.Contains(res.Reason(), "exec format error") {
			t.Errorf("Reason() = %q", res.Reason())
		}
	})
}

func TestResolveNonexistentOnRealPath(t *testing.T) {
	r := NewResolver(command.Exec{})
	res := r.Resolve(context.Background(), "definitely-nonexistent-tool-xyz")
	if res.Found() {
		t.Fatal("definitely-nonexistent-tool-xyz reported as found")
	}
}

func TestFirstLine(t *testing.T) {
	for in, want := range map[string]string{
		"":                       "",
		"ninja 1.11.1\n":         "ninja 1.11.1",
		"clang version 18\r\nx": "clang version 18",
		"  padded  \n":           "padded",
	} {
		if got := firstLine([]byte(in)); got != want {
			t.Errorf("firstLine(%q) = %q, want %q", in, got, want)
		}
	}
}
