package migrate

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sortwise/sessiond/internal/infrastructure/database"
	"github.com/sortwise/sessiond/internal/infrastructure/migration"
	"github.com/sortwise/sessiond/internal/interfaces/cli/bootstrap"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the account database schema: apply or roll back migrations and show their status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Run all pending migrations",
			RunE:  runUp,
		},
		newDownCommand(),
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE:  runStatus,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE:  runVersion,
		},
	)

	return cmd
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func runUp(cmd *cobra.Command, args []string) error {
	return withMigrator(cmd.Context(), func(ctx context.Context, m *migration.Migrator, log logger.Interface) error {
		if err := m.Up(ctx); err != nil {
			return err
		}
		log.Infow("migrations applied")
		return nil
	})
}

func runDown(cmd *cobra.Command, args []string) error {
	if steps < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", steps)
	}
	return withMigrator(cmd.Context(), func(ctx context.Context, m *migration.Migrator, log logger.Interface) error {
		if err := m.Down(ctx, steps); err != nil {
			return err
		}
		log.Infow("migrations rolled back", "steps", steps)
		return nil
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withMigrator(cmd.Context(), func(ctx context.Context, m *migration.Migrator, _ logger.Interface) error {
		return m.Status(ctx)
	})
}

func runVersion(cmd *cobra.Command, args []string) error {
	return withMigrator(cmd.Context(), func(ctx context.Context, m *migration.Migrator, _ logger.Interface) error {
		version, err := m.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", version)
		return nil
	})
}

// withMigrator opens only the database; migrations never need the session
// store.
func withMigrator(ctx context.Context, fn func(context.Context, *migration.Migrator, logger.Interface) error) error {
	cfg, log, err := bootstrap.Init(env)
	if err != nil {
		return err
	}

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	m, err := migration.NewMigrator(db, cfg.Database.Driver, log)
	if err != nil {
		return err
	}
	return fn(ctx, m, log)
}
