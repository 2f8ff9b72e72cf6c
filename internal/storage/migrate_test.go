package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrationManager_Up(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migration-test.db")

	mgr, err := NewMigrationManager(dbPath)
	if err != nil {
		t.Fatalf("Failed to create migration manager: %v", err)
	}

	if err := mgr.Up(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	if err := mgr.Close(); err != nil {
		t.Fatalf("Failed to close migration manager: %v", err)
	}

	// Reopen to verify the recorded schema version.
	mgr2, err := NewMigrationManager(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen migration manager: %v", err)
	}
	defer mgr2.Close()

	version, dirty, err := mgr2.Version()
	if err != nil {
		t.Fatalf("Failed to get migration version: %v", err)
	}

	if dirty {
		t.Error("Database is in dirty state after migrations")
	}

	if version < 1 {
		t.Errorf("Expected migration version >= 1, got %d", version)
	}

	t.Logf("✅ Migrations completed successfully at version %d", version)
}

func TestMigrationManager_LibraryTables(t *testing.T) {
	config := DefaultConfig(filepath.Join(t.TempDir(), "tables-test.db"))
	config.AutoMigrate = true

	db, err := Open(config)
	if err != nil {
		t.Fatalf("Failed to open database with migrations: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"images", "collections", "scans"} {
		var name string
		err := db.Conn().QueryRow(`
			SELECT name FROM sqlite_master
			WHERE type='table' AND name = ?
		`, table).Scan(&name)
		if err != nil {
			if err == sql.ErrNoRows {
				t.Errorf("Table '%s' does not exist after migration", table)
				continue
			}
			t.Fatalf("Failed to query for table '%s': %v", table, err)
		}
	}

	columns := []string{
		"id", "rel_path", "file_name", "title", "collection_key",
		"size_bytes", "width", "height", "mod_time", "position",
		"first_seen_at", "last_seen_at", "missing",
	}
	for _, col := range columns {
		var name string
		err := db.Conn().QueryRow(`
			SELECT name FROM pragma_table_info('images') WHERE name = ?
		`, col).Scan(&name)
		if err != nil {
			if err == sql.ErrNoRows {
				t.Errorf("Column '%s' does not exist in images table", col)
				continue
			}
			t.Errorf("Failed to query column info for '%s': %v", col, err)
		}
	}

	indexes := []string{
		"idx_images_collection_key",
		"idx_images_missing",
		"idx_images_last_seen_at",
	}
	for _, idx := range indexes {
		var name string
		err := db.Conn().QueryRow(`
			SELECT name FROM sqlite_master
			WHERE type='index' AND name = ?
		`, idx).Scan(&name)
		if err != nil {
			if err == sql.ErrNoRows {
				t.Errorf("Index '%s' does not exist", idx)
				continue
			}
			t.Errorf("Failed to query index '%s': %v", idx, err)
		}
	}
}

func TestMigrationManager_Down(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migration-down-test.db")

	mgr, err := NewMigrationManager(dbPath)
	if err != nil {
		t.Fatalf("Failed to create migration manager: %v", err)
	}
	defer mgr.Close()

	if err := mgr.Up(); err != nil {
		t.Fatalf("Failed to run migrations up: %v", err)
	}

	versionBefore, _, err := mgr.Version()
	if err != nil {
		t.Fatalf("Failed to get version before down: %v", err)
	}

	if err := mgr.Steps(-1); err != nil {
		t.Fatalf("Failed to run migration down: %v", err)
	}

	versionAfter, dirty, err := mgr.Version()
	if err != nil {
		t.Fatalf("Failed to get version after down: %v", err)
	}

	if dirty {
		t.Error("Database is in dirty state after rollback")
	}

	if versionAfter >= versionBefore {
		t.Errorf("Version should decrease after down migration: before=%d, after=%d", versionBefore, versionAfter)
	}

	t.Logf("✅ Down migration successful: %d -> %d", versionBefore, versionAfter)
}

func TestMigrationManager_VersionFresh(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "version-test.db")

	mgr, err := NewMigrationManager(dbPath)
	if err != nil {
		t.Fatalf("Failed to create migration manager: %v", err)
	}
	defer mgr.Close()

	version, dirty, err := mgr.Version()
	if err != nil {
		t.Fatalf("Failed to get version: %v", err)
	}

	if dirty {
		t.Error("Fresh database should not be dirty")
	}

	if version != 0 {
		t.Errorf("Fresh database should report version 0, got %d", version)
	}
}
