// Package databasetest provides migrated SQLite stores for package tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"launches-server/internal/shared/config"
	"launches-server/internal/shared/database"
)

// New opens a fresh SQLite file under t.TempDir, applies every migration and closes
// the handle when the test ends.
func New(t testing.TB) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(config.DriverSQLite, path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	if err := db.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations() failed: %v", err)
	}

	return db
}
