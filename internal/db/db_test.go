package db

import (
	"path/filepath"
	"testing"

	"quillpost/internal/config"
	"quillpost/internal/models"
)

func TestNewSQLiteMigratesSchema(t *testing.T) {
	conn, err := New(config.DatabaseConfig{
		Driver:   "sqlite",
		FilePath: filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, m := range []interface{}{&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{}} {
		if !conn.Migrator().HasTable(m) {
			t.Errorf("expected table for %T", m)
		}
	}
	if !conn.Migrator().HasIndex(&models.Follow{}, "idx_follow_pair") {
		t.Errorf("expected unique follow pair index")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
