package database

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// CreateTempDB creates a migrated sqlite database inside the test's temp dir.
// The connection is closed and the file removed when the test finishes, so
// callers never need to clean up on their own.
func CreateTempDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db := NewDB(DriverSQLite, SQLiteDSN(path))
	if err := Open(db, true); err != nil {
		t.Fatalf("fail to open temp DB %s: %s", path, err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("fail to migrate temp DB %s: %s", path, err)
	}
	t.Cleanup(func() {
		if err := Close(db); err != nil {
			t.Logf("cannot close temp DB: %s", err)
		}
	})
	return db.Gorm
}
