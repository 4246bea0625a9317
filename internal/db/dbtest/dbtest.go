// Package dbtest provides in-memory SQLite databases for tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/models"
)

// Open creates an in-memory SQLite database. The pool is limited to a single
// connection, otherwise every new connection would see its own empty database.
// If migrate is true the system_info table is created.
func Open(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if migrate {
		err = db.AutoMigrate(&models.SystemInfo{})
		require.NoError(t, err, "failed to migrate test database")
	}

	return db
}

// Seed inserts entries directly, bypassing the store.
func Seed(t *testing.T, db *gorm.DB, entries ...models.SystemInfo) {
	t.Helper()

	for _, entry := range entries {
		err := db.Create(&entry).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

// Count returns the number of rows stored under key.
func Count(t *testing.T, db *gorm.DB, key string) int64 {
	t.Helper()

	var count int64

	err := db.Model(&models.SystemInfo{}).Where(map[string]any{"key": key}).Count(&count).Error
	require.NoError(t, err)

	return count
}
