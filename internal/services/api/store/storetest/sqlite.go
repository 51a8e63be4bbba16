// Package storetest opens throwaway databases for tests.
package storetest

import (
	"amiigo/internal/models"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite returns an in-memory SQLite database with the users and profiles
// tables, closed when the test ends.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db := NewBareSQLite(t)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}))
	return db
}

// NewBareSQLite is NewSQLite without any tables.
func NewBareSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}
