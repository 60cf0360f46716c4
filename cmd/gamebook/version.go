package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/gamebook/internal/telemetry"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gamebook v%s\n", telemetry.Version)
		},
	}
}
