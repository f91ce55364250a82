// Package buildsys describes how an external build generator and its build
// tool are invoked for one build output directory.
package buildsys

import "github.com/vkendeavour/vkbuild/internal/command"

// BuildSystem captures the two external invocations of a build: configure
// (generate the build graph) and build (execute it). Implementations only
// describe the commands; running them is up to the caller.
type BuildSystem interface {
	// ConfigureCommand returns the generator invocation for buildType,
	// to be run with dir as working directory.
	ConfigureCommand(dir, buildType string) *command.Command

	// BuildCommand returns the build tool invocation run inside dir.
	BuildCommand(dir string) *command.Command

	// Tools lists the executables the two commands need on PATH.
	Tools() []string
}
