package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sortwise/sessiond/internal/interfaces/cli/accounts"
	"github.com/sortwise/sessiond/internal/interfaces/cli/migrate"
	"github.com/sortwise/sessiond/internal/interfaces/cli/serve"
	"github.com/sortwise/sessiond/internal/interfaces/cli/sessions"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "sessiond",
		Short:        "sessiond - single-session token authority",
		Long:         `sessiond issues opaque session tokens, keeps at most one live session per account and exposes online presence to administrators.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		serve.NewCommand(),
		migrate.NewCommand(),
		sessions.NewCommand(),
		accounts.NewCommand(),
		newVersionCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
