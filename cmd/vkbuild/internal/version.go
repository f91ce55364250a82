package internal

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the vkbuild version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vkbuild %s %s/%s\n", buildVersion(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.Version = buildVersion()
	rootCmd.AddCommand(versionCmd)
}

// buildVersion returns the module version stamped by the go command, or
// "(devel)" for local builds.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
