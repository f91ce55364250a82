package internal

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vkendeavour/vkbuild/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count source lines per engine directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, "\n====== Code statistics (Lines of code) ======\n\n")
		for _, c := range stats.Count(cfg.Root, cfg.Stats.Dirs, cfg.Stats.Extensions) {
			fmt.Fprintf(out, "  %-25s %d\n", c.Dir, c.Lines)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
