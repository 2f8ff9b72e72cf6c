package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createBackupTestDB builds a migrated database seeded with one image row and
// returns its path.
func createBackupTestDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "index.db")
	config := DefaultConfig(dbPath)
	config.AutoMigrate = true

	db, err := Open(config)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer db.Close()

	_, err = db.Conn().Exec(`
		INSERT INTO images (rel_path, file_name, title, mod_time, first_seen_at, last_seen_at)
		VALUES ('cover.png', 'cover.png', 'Cover', '2026-03-01 10:00:00.000000',
			'2026-03-01 10:00:00.000000', '2026-03-01 10:00:00.000000')
	`)
	if err != nil {
		t.Fatalf("Failed to seed test data: %v", err)
	}

	return dbPath
}

// countIndexedImages opens the database file directly and counts image rows.
func countIndexedImages(t *testing.T, dbPath string) int {
	t.Helper()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database %s: %v", dbPath, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM images").Scan(&n); err != nil {
		t.Fatalf("Failed to count images in %s: %v", dbPath, err)
	}
	return n
}

func TestBackupManager_Backup(t *testing.T) {
	dbPath := createBackupTestDB(t)
	backupMgr := NewBackupManager(dbPath)

	backupPath, err := backupMgr.Backup(DefaultBackupConfig())
	if err != nil {
		t.Fatalf("Failed to create backup: %v", err)
	}

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Fatalf("Backup file was not created: %s", backupPath)
	}
	if filepath.Dir(backupPath) != backupMgr.BackupDir() {
		t.Errorf("Expected backup in %s, got %s", backupMgr.BackupDir(), backupPath)
	}

	if err := backupMgr.VerifyBackup(backupPath); err != nil {
		t.Fatalf("Backup verification failed: %v", err)
	}

	if n := countIndexedImages(t, backupPath); n != 1 {
		t.Errorf("Expected 1 image row in backup, got %d", n)
	}
}

func TestBackupManager_BackupWithCustomName(t *testing.T) {
	dbPath := createBackupTestDB(t)
	backupMgr := NewBackupManager(dbPath)

	config := DefaultBackupConfig()
	config.BackupName = "before-reshoot"

	backupPath, err := backupMgr.Backup(config)
	if err != nil {
		t.Fatalf("Failed to create backup: %v", err)
	}

	if got := filepath.Base(backupPath); got != "before-reshoot.db" {
		t.Errorf("Expected backup name 'before-reshoot.db', got '%s'", got)
	}
}

func TestBackupManager_VerifyBackup(t *testing.T) {
	dbPath := createBackupTestDB(t)
	backupMgr := NewBackupManager(dbPath)

	backupPath, err := backupMgr.Backup(DefaultBackupConfig())
	if err != nil {
		t.Fatalf("Failed to create backup: %v", err)
	}

	if err := backupMgr.VerifyBackup(backupPath); err != nil {
		t.Fatalf("Backup verification failed: %v", err)
	}

	junkPath := filepath.Join(t.TempDir(), "junk.db")
	if err := os.WriteFile(junkPath, []byte("not a database"), 0o644); err != nil {
		t.Fatalf("Failed to write junk file: %v", err)
	}
	if err := backupMgr.VerifyBackup(junkPath); err == nil {
		t.Error("Expected error when verifying a junk file")
	}
}

func TestBackupManager_ListBackups(t *testing.T) {
	dbPath := createBackupTestDB(t)
	backupMgr := NewBackupManager(dbPath)

	backups, err := backupMgr.ListBackups("")
	if err != nil {
		t.Fatalf("Failed to list empty backup directory: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Expected no backups before any were made, got %d", len(backups))
	}

	config := DefaultBackupConfig()
	config.BackupName = "first"
	if _, err := backupMgr.Backup(config); err != nil {
		t.Fatalf("Failed to create first backup: %v", err)
	}
	config.BackupName = "second"
	if _, err := backupMgr.Backup(config); err != nil {
		t.Fatalf("Failed to create second backup: %v", err)
	}

	// Unrelated files are skipped.
	if err := os.WriteFile(filepath.Join(backupMgr.BackupDir(), "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write unrelated file: %v", err)
	}

	backups, err = backupMgr.ListBackups("")
	if err != nil {
		t.Fatalf("Failed to list backups: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("Expected 2 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Size == 0 {
			t.Errorf("Expected non-zero size for %s", b.Name)
		}
		if b.Checksum == "" || b.Checksum == "unknown" {
			t.Errorf("Expected checksum for %s, got '%s'", b.Name, b.Checksum)
		}
		if b.Encrypted {
			t.Errorf("Expected %s to be listed as unencrypted", b.Name)
		}
	}
}

func TestBackupManager_Restore(t *testing.T) {
	dbPath := createBackupTestDB(t)
	backupMgr := NewBackupManager(dbPath)

	backupPath, err := backupMgr.Backup(DefaultBackupConfig())
	if err != nil {
		t.Fatalf("Failed to create backup: %v", err)
	}

	// Wreck the live database after backing up.
	liveDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open live database: %v", err)
	}
	if _, err := liveDB.Exec("DELETE FROM images"); err != nil {
		t.Fatalf("Failed to clear live database: %v", err)
	}
	_ = liveDB.Close()

	if n := countIndexedImages(t, dbPath); n != 0 {
		t.Fatalf("Expected cleared database, got %d rows", n)
	}

	if err := backupMgr.Restore(backupPath, ""); err != nil {
		t.Fatalf("Failed to restore backup: %v", err)
	}

	if n := countIndexedImages(t, dbPath); n != 1 {
		t.Errorf("Expected 1 image row after restore, got %d", n)
	}

	// The pre-restore database is kept under an .old suffix.
	entries, err := os.ReadDir(filepath.Dir(dbPath))
	if err != nil {
		t.Fatalf("Failed to read database directory: %v", err)
	}
	foundOld := false
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".old.") {
			foundOld = true
		}
	}
	if !foundOld {
		t.Error("Expected previous database to be kept with .old suffix")
	}
}

func TestBackupManager_RestoreMissingFile(t *testing.T) {
	dbPath := createBackupTestDB(t)
	backupMgr := NewBackupManager(dbPath)

	if err := backupMgr.Restore(filepath.Join(t.TempDir(), "missing.db"), ""); err == nil {
		t.Error("Expected error when restoring a missing backup")
	}
}

func TestBackupManager_EncryptedBackup(t *testing.T) {
	dbPath := createBackupTestDB(t)
	backupMgr := NewBackupManager(dbPath)

	config := DefaultBackupConfig()
	config.BackupName = "locked"
	config.Password = "gallery-pass"

	backupPath, err := backupMgr.Backup(config)
	if err != nil {
		t.Fatalf("Failed to create encrypted backup: %v", err)
	}

	if !strings.HasSuffix(backupPath, ".db.enc") {
		t.Errorf("Expected .db.enc suffix, got %s", backupPath)
	}

	// The plaintext backup must not be left behind.
	if _, err := os.Stat(strings.TrimSuffix(backupPath, encryptedBackupExt)); !os.IsNotExist(err) {
		t.Error("Expected plaintext backup to be removed after encryption")
	}

	encrypted, err := IsEncrypted(backupPath)
	if err != nil {
		t.Fatalf("Failed to inspect backup: %v", err)
	}
	if !encrypted {
		t.Error("Expected backup file to carry the encryption header")
	}

	backups, err := backupMgr.ListBackups("")
	if err != nil {
		t.Fatalf("Failed to list backups: %v", err)
	}
	if len(backups) != 1 || !backups[0].Encrypted {
		t.Errorf("Expected one encrypted backup in listing, got %+v", backups)
	}

	if err := backupMgr.Restore(backupPath, "gallery-pass"); err != nil {
		t.Fatalf("Failed to restore encrypted backup: %v", err)
	}
	if n := countIndexedImages(t, dbPath); n != 1 {
		t.Errorf("Expected 1 image row after encrypted restore, got %d", n)
	}
}

func TestBackupManager_EncryptedRestoreWrongPassword(t *testing.T) {
	dbPath := createBackupTestDB(t)
	backupMgr := NewBackupManager(dbPath)

	config := DefaultBackupConfig()
	config.Password = "right"

	backupPath, err := backupMgr.Backup(config)
	if err != nil {
		t.Fatalf("Failed to create encrypted backup: %v", err)
	}

	if err := backupMgr.Restore(backupPath, "wrong"); err == nil {
		t.Error("Expected error when restoring with wrong password")
	}
	if err := backupMgr.Restore(backupPath, ""); err == nil {
		t.Error("Expected error when restoring without a password")
	}
}

func TestBackupManager_BackupDir(t *testing.T) {
	backupMgr := NewBackupManager("/data/atelier/index.db")

	want := filepath.Join("/data/atelier", "backups")
	if got := backupMgr.BackupDir(); got != want {
		t.Errorf("Expected backup dir %s, got %s", want, got)
	}
}
