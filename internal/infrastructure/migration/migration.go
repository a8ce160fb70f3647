// Package migration applies the embedded goose migrations for the account
// database.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/sortwise/sessiond/internal/shared/config"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

//go:embed scripts/*/*.sql
var scripts embed.FS

// goose keeps its dialect, filesystem and logger in package globals.
var gooseMu sync.Mutex

// Migrator runs goose migrations for one database.
type Migrator struct {
	db      *sql.DB
	dialect string
	dir     string
	logger  logger.Interface
}

func NewMigrator(db *gorm.DB, driver string, log logger.Interface) (*Migrator, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	var dialect, dir string
	switch driver {
	case config.DriverMySQL:
		dialect, dir = "mysql", "scripts/mysql"
	case config.DriverSQLite, "":
		dialect, dir = "sqlite3", "scripts/sqlite"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	return &Migrator{
		db:      sqlDB,
		dialect: dialect,
		dir:     dir,
		logger:  log.With("component", "migration.goose"),
	}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(func() error {
		from, err := goose.GetDBVersionContext(ctx, m.db)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}

		if err := goose.UpContext(ctx, m.db, m.dir); err != nil {
			m.logger.Errorw("migration failed", "error", err)
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		to, err := goose.GetDBVersionContext(ctx, m.db)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}

		m.logger.Infow("migration completed successfully", "from_version", from, "to_version", to)
		return nil
	})
}

// Down rolls back steps migrations.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	return m.run(func() error {
		for i := 0; i < steps; i++ {
			if err := goose.DownContext(ctx, m.db, m.dir); err != nil {
				m.logger.Errorw("down migration failed", "error", err)
				return fmt.Errorf("failed to run down migration: %w", err)
			}
		}
		m.logger.Infow("down migration completed successfully", "steps", steps)
		return nil
	})
}

func (m *Migrator) Version(ctx context.Context) (int64, error) {
	var version int64
	err := m.run(func() error {
		v, err := goose.GetDBVersionContext(ctx, m.db)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// Status logs the state of every migration.
func (m *Migrator) Status(ctx context.Context) error {
	return m.run(func() error {
		if err := goose.StatusContext(ctx, m.db, m.dir); err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		return nil
	})
}

func (m *Migrator) run(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(scripts)
	goose.SetLogger(&gooseLogger{log: m.logger})
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn()
}

type gooseLogger struct {
	log logger.Interface
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infow(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Errorw(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
