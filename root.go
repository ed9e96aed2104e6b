package main

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "containerctl",
	Short:             "Check and inspect container files",
	DisableAutoGenTag: true,
	SilenceErrors:     true,
	SilenceUsage:      true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func Execute(ctx context.Context) error {
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newServeCommand())
	return rootCmd.ExecuteContext(ctx)
}
