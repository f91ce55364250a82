package internal

import (
	"os"
	"os/exec"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
	"github.com/vkendeavour/vkbuild/internal/command"
	"github.com/vkendeavour/vkbuild/internal/config"
	"github.com/vkendeavour/vkbuild/internal/env"
)

var (
	projectDir string
	verbose    bool

	// runner runs every external tool and lookPath locates them; tests
	// replace both.
	runner   command.Runner = command.Exec{}
	lookPath                = exec.LookPath
)

var rootCmd = &cobra.Command{
	Use:   "vkbuild",
	Short: "vkbuild builds the engine and checks the host toolchain",
	Long: `vkbuild configures and builds the project with cmake and ninja, stages
compiled shaders next to the executables, and reports whether the host has
the toolchain and Vulkan driver stack needed to build and run it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		} else {
			log.SetOutputLevel(log.Linfo)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "Project root (default: nearest parent with vkbuild.toml or CMakeLists.txt)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig resolves the project root and reads its configuration.
func loadConfig() (*config.Config, error) {
	root := projectDir
	if root == "" {
		var err error
		if root, err = env.WorkDir(); err != nil {
			return nil, err
		}
	}
	return config.Load(root)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
