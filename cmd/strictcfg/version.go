package main

import (
	"github.com/0xalexb/strictcfg"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printf(cmd.OutOrStdout(), "strictcfg %s (commit %s, built %s)\n",
				strictcfg.Version, strictcfg.Commit, strictcfg.CompiledAt)
		},
	}
}
