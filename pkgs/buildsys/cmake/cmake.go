// Package cmake describes cmake configure invocations and the build tool run
// in the generated tree.
package cmake

import (
	"maps"
	"path/filepath"
	"slices"

	"github.com/vkendeavour/vkbuild/internal/command"
	"github.com/vkendeavour/vkbuild/pkgs/buildsys"
)

// defineValue is one cache entry. An empty typeName leaves the type to cmake.
type defineValue struct {
	value    string
	typeName string
}

func (d defineValue) arg(key string) string {
	if d.typeName == "" {
		return "-D" + key + "=" + d.value
	}
	return "-D" + key + ":" + d.typeName + "=" + d.value
}

// CMake holds the options of a cmake based build. Setters are chainable.
type CMake struct {
	sourceDir   string
	generator   string
	cCompiler   string
	cxxCompiler string
	logLevel    string
	tool        string
	defines     map[string]defineValue
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New returns a CMake for the project whose top-level CMakeLists.txt lives in
// sourceDir.
func New(sourceDir string) *CMake {
	return &CMake{
		sourceDir: sourceDir,
		defines:   make(map[string]defineValue),
	}
}

// Generator sets the build-file generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

// Compilers selects the C and C++ compilers. Empty values keep cmake's choice.
func (c *CMake) Compilers(cc, cxx string) *CMake {
	c.cCompiler = cc
	c.cxxCompiler = cxx
	return c
}

// MessageLogLevel sets CMAKE_MESSAGE_LOG_LEVEL (e.g. "WARNING").
func (c *CMake) MessageLogLevel(level string) *CMake {
	c.logLevel = level
	return c
}

// BuildTool sets the executable run without arguments in the build tree.
// When empty, "cmake --build ." is used instead.
func (c *CMake) BuildTool(name string) *CMake {
	c.tool = name
	return c
}

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) *CMake {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
	return c
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) *CMake {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
	return c
}

// ConfigureCommand returns "cmake <source> -G <generator> -D...", with the
// source directory expressed relative to dir when possible.
func (c *CMake) ConfigureCommand(dir, buildType string) *command.Command {
	source := c.sourceDir
	if rel, err := filepath.Rel(dir, c.sourceDir); err == nil {
		source = filepath.ToSlash(rel)
	}
	args := []string{source}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}

	defines := make(map[string]defineValue, len(c.defines)+4)
	for k, v := range c.defines {
		defines[k] = v
	}
	// Toolchain selection is passed untyped so cmake resolves the compiler
	// names on PATH itself.
	if c.cxxCompiler != "" {
		defines["CMAKE_CXX_COMPILER"] = defineValue{value: c.cxxCompiler}
	}
	if c.cCompiler != "" {
		defines["CMAKE_C_COMPILER"] = defineValue{value: c.cCompiler}
	}
	if buildType != "" {
		defines["CMAKE_BUILD_TYPE"] = defineValue{value: buildType}
	}
	if c.logLevel != "" {
		defines["CMAKE_MESSAGE_LOG_LEVEL"] = defineValue{value: c.logLevel}
	}
	for _, k := range slices.Sorted(maps.Keys(defines)) {
		args = append(args, defines[k].arg(k))
	}

	return &command.Command{Name: "cmake", Args: args, Dir: dir}
}

// BuildCommand returns the build tool invocation inside dir.
func (c *CMake) BuildCommand(dir string) *command.Command {
	if c.tool == "" {
		return &command.Command{Name: "cmake", Args: []string{"--build", "."}, Dir: dir}
	}
	return &command.Command{Name: c.tool, Dir: dir}
}

// Tools returns cmake and the build tool.
func (c *CMake) Tools() []string {
	if c.tool == "" || c.tool == "cmake" {
		return []string{"cmake"}
	}
	return []string{"cmake", c.tool}
}
