package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortwise/sessiond/internal/shared/config"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
