// Package testutil provides an isolated in-memory database for package tests.
package testutil

import (
	"sync"
	"testing"
	"time"

	"taxapi/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TickingClock returns a clock starting at the current time that advances one millisecond per call,
// so consecutive writes always get distinct, increasing timestamps.
func TickingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Now().Local().Truncate(time.Millisecond)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}
}

// SetupTestDB opens a migrated in-memory SQLite database that is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      "file::memory:",
		LogLevel: logger.Silent,
		NowFunc:  TickingClock(),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
