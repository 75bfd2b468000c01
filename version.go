package main

import (
	"fmt"

	"scratchcalc/internal/buildinfo"

	"github.com/spf13/cobra"
)

func getVersion() string {
	return buildinfo.Read().Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of scratchcalc.`,
		Run: func(cmd *cobra.Command, _ []string) {
			info := buildinfo.Read()
			fmt.Fprintf(cmd.OutOrStdout(), "scratchcalc version %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", info.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", info.Date)
		},
	}
}
