package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNew_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "visa.db")

	db, err := New(context.Background(), "sqlite", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Exec("CREATE TABLE scratch (id INTEGER)").Error; err != nil {
		t.Fatalf("exec: %v", err)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), "oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
