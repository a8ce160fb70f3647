package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sortwise/sessiond/internal/interfaces/cli/bootstrap"
	"github.com/sortwise/sessiond/internal/shared/version"
)

func newVersionCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			return bootstrap.Render(cmd.OutOrStdout(), output, info, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "sessiond %s (commit %s, %s)\n", info.Version, info.Commit, info.GoVersion)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", bootstrap.FormatTable, "Output format (table, json, yaml)")

	return cmd
}
