package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vproc/plugins"
	"github.com/sarchlab/vproc/thread"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the built-in plugins.",
	Run: func(cmd *cobra.Command, _ []string) {
		registry := thread.NewRegistry()
		plugins.Register(registry)

		for _, path := range registry.Paths() {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}
