package internal

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vkendeavour/vkbuild/internal/probe"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report the toolchain and graphics driver stack",
	Long: `Doctor looks up the build tools and shader compiler, tries to load the
Vulkan loader, and summarizes the primary GPU reported by vulkaninfo.
Missing items are reported; they never make the command fail.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVarP(&doctorFormat, "format", "f", "text", "Output format: text or yaml")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	if doctorFormat != "text" && doctorFormat != "yaml" {
		return fmt.Errorf("unknown format %q", doctorFormat)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rep := probe.NewReporter(cfg.Doctor, runner).Report(cmd.Context())
	if doctorFormat == "yaml" {
		return probe.WriteYAML(cmd.OutOrStdout(), rep)
	}
	return probe.WriteText(cmd.OutOrStdout(), rep)
}
