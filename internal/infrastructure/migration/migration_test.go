package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sortwise/sessiond/internal/shared/config"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func TestMigrator_UpAndDown(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	m, err := NewMigrator(db, config.DriverSQLite, logger.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, m.Up(ctx))
	assert.True(t, db.Migrator().HasTable("accounts"))

	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Re-running is a no-op.
	require.NoError(t, m.Up(ctx))

	require.NoError(t, m.Down(ctx, 1))
	assert.False(t, db.Migrator().HasTable("accounts"))
}

func TestNewMigrator_UnknownDriver(t *testing.T) {
	_, err := NewMigrator(setupTestDB(t), "oracle", logger.NewNopLogger())
	assert.Error(t, err)
}
