package database

import (
	"context"
	"testing"

	"gorm.io/gorm"
)

// OpenTest returns a migrated in-memory SQLite database closed at test end.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := New(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
