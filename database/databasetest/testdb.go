// Package databasetest opens throwaway databases for tests.
package databasetest

import (
	"fmt"
	"testing"

	"kaifacademy/database"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectTestDb opens an isolated in-memory SQLite database, migrates it and installs it as the
// global database.Database for the duration of the test.
func ConnectTestDb(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	// a second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	previous := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() {
		database.Database = previous
		sqlDB.Close()
	})
	return db
}
