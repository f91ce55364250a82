package internal

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vkendeavour/vkbuild/internal/build"
	"github.com/vkendeavour/vkbuild/internal/config"
)

var (
	buildClean       bool
	buildDebug       bool
	buildRelease     bool
	buildIncremental bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Configure and build Debug and/or Release",
	Long: `Build runs clean, configure, build and shader staging for each selected
configuration. Actions run in a fixed order: clean, Debug, Release. The first
failing command aborts the whole run.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildClean, "clean", "c", false, "Remove the whole build directory first")
	buildCmd.Flags().BoolVarP(&buildDebug, "debug", "d", false, "Build the Debug configuration")
	buildCmd.Flags().BoolVarP(&buildRelease, "release", "r", false, "Build the Release configuration")
	buildCmd.Flags().BoolVarP(&buildIncremental, "incremental", "i", false, "Keep existing build output instead of recreating it")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if !buildClean && !buildDebug && !buildRelease {
		return errors.New("nothing to do: pass --clean, --debug and/or --release")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if buildClean {
		if err := build.Clean(cfg, out); err != nil {
			return err
		}
	}

	var names []string
	if buildDebug {
		names = append(names, config.Debug)
	}
	if buildRelease {
		names = append(names, config.Release)
	}

	o := build.New(cfg, runner, out)
	o.LookPath = lookPath
	for _, name := range names {
		fmt.Fprintf(out, "\n====== Building %s ======\n\n", name)
		if err := o.Run(cmd.Context(), cfg.Configuration(name), build.Options{Incremental: buildIncremental}); err != nil {
			return fmt.Errorf("build %s: %w", name, err)
		}
	}
	return nil
}
