// Package config holds the project layout and tool settings.
//
// The layout is fixed by convention; an optional vkbuild.toml at the project
// root may override any part of it. A loaded Config is never modified.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/qiniu/x/log"

	toml "github.com/pelletier/go-toml/v2"
)

// FileName is the optional per-project configuration file.
const FileName = "vkbuild.toml"

// Build type names.
const (
	Debug   = "Debug"
	Release = "Release"
)

// Config is the project configuration.
type Config struct {
	// Root is the absolute project root. It is not read from the file.
	Root string `toml:"-"`

	Build  Build  `toml:"build"`
	Doctor Doctor `toml:"doctor"`
	Stats  Stats  `toml:"stats"`
}

// Build controls configure, build and shader staging.
type Build struct {
	Dir              string         `toml:"dir"`
	Application      string         `toml:"application"`
	Shaders          string         `toml:"shaders"`
	ShaderExtensions []string       `toml:"shader_extensions"`
	Generator        string         `toml:"generator"`
	CCompiler        string         `toml:"c_compiler"`
	CXXCompiler      string         `toml:"cxx_compiler"`
	Tool             string         `toml:"tool"`
	MessageLogLevel  string         `toml:"message_log_level"`
	// Defines are extra cache entries, strings or booleans.
	Defines          map[string]any `toml:"defines"`
}

// Doctor controls the environment report.
type Doctor struct {
	Tools              []string          `toml:"tools"`
	DiagnosticTool     string            `toml:"diagnostic_tool"`
	DiagnosticArgs     []string          `toml:"diagnostic_args"`
	LoaderCandidates   []string          `toml:"loader_candidates"`
	Requirements       map[string]string `toml:"requirements"`
	MinInstanceVersion string            `toml:"min_instance_version"`
}

// Stats controls the line statistics.
type Stats struct {
	Dirs       []string `toml:"dirs"`
	Extensions []string `toml:"extensions"`
}

// Default returns the built-in configuration rooted at root.
func Default(root string) *Config {
	return &Config{
		Root: root,
		Build: Build{
			Dir:              "Build",
			Application:      filepath.Join("Applications", "Sandbox"),
			Shaders:          "Shaders",
			ShaderExtensions: []string{".spv"},
			Generator:        "Ninja",
			CCompiler:        "clang",
			CXXCompiler:      "clang++",
			Tool:             "ninja",
			MessageLogLevel:  "WARNING",
		},
		Doctor: Doctor{
			Tools:            []string{"cmake", "clang++", "ninja", "vulkaninfo", "glslc"},
			DiagnosticTool:   "vulkaninfo",
			DiagnosticArgs:   []string{"--summary"},
			LoaderCandidates: DefaultLoaderCandidates(runtime.GOOS),
		},
		Stats: Stats{
			Dirs: []string{
				"Engine/Core",
				"Engine/Debug",
				"Engine/Graphics",
				"Engine/Vendor",
				"Applications/Sandbox",
			},
			Extensions: []string{".cpp", ".hpp"},
		},
	}
}

// DefaultLoaderCandidates returns the graphics loader library names tried, in
// order, on the given operating system.
func DefaultLoaderCandidates(goos string) []string {
	switch goos {
	case "windows":
		return []string{"vulkan-1.dll"}
	case "darwin":
		return []string{
			"libvulkan.1.dylib",
			"libvulkan.dylib",
			"/usr/local/lib/libvulkan.1.dylib",
			"libMoltenVK.dylib",
		}
	default:
		return []string{
			"libvulkan.so.1",
			"libvulkan.so",
			"/usr/lib/libvulkan.so.1",
			"/usr/lib64/libvulkan.so.1",
			"/usr/local/lib/libvulkan.so.1",
		}
	}
}

// Load reads FileName from root on top of the defaults. A missing file is
// not an error.
func Load(root string) (*Config, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	cfg := Default(root)

	path := filepath.Join(root, FileName)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("config: no %s in %s, using defaults", FileName, root)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Root = root
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	log.Debugf("config: loaded %s", path)
	return cfg, nil
}

// Validate reports settings that would make a run meaningless.
func (c *Config) Validate() error {
	if c.Build.Dir == "" {
		return errors.New("build.dir is empty")
	}
	if filepath.IsAbs(c.Build.Dir) {
		return fmt.Errorf("build.dir %q must be relative to the project root", c.Build.Dir)
	}
	if len(c.Build.ShaderExtensions) == 0 {
		return errors.New("build.shader_extensions is empty")
	}
	for _, ext := range append(append([]string{}, c.Build.ShaderExtensions...), c.Stats.Extensions...) {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	for k, v := range c.Build.Defines {
		switch v.(type) {
		case string, bool:
		default:
			return fmt.Errorf("build.defines.%s: unsupported value %v (%T), want a string or a boolean", k, v, v)
		}
	}
	if c.Doctor.DiagnosticTool == "" {
		return errors.New("doctor.diagnostic_tool is empty")
	}
	return nil
}

// BuildRoot is the directory holding every build configuration.
func (c *Config) BuildRoot() string {
	return filepath.Join(c.Root, c.Build.Dir)
}

// Configuration returns the directories used to build the named build type.
func (c *Config) Configuration(name string) BuildConfiguration {
	out := filepath.Join(c.BuildRoot(), name)
	return BuildConfiguration{
		Name:           name,
		OutputDir:      out,
		SourceAssetDir: filepath.Join(c.Root, c.Build.Application, c.Build.Shaders),
		StagedAssetDir: filepath.Join(out, c.Build.Application, c.Build.Shaders),
	}
}

// BuildConfiguration is the set of directories used for one build type.
// It is created once per invocation and passed by value.
type BuildConfiguration struct {
	Name           string
	OutputDir      string
	SourceAssetDir string
	StagedAssetDir string
}
