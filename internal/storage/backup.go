package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const encryptedBackupExt = ".enc"

// BackupManager handles backup and restore of the index database.
type BackupManager struct {
	dbPath string
}

// NewBackupManager creates a backup manager for the given database path.
func NewBackupManager(dbPath string) *BackupManager {
	return &BackupManager{dbPath: dbPath}
}

// BackupConfig holds options for one backup run.
type BackupConfig struct {
	// BackupDir is where backups are written. Empty means a "backups"
	// directory next to the database.
	BackupDir string

	// BackupName names the backup file without extension. Empty means a
	// timestamp-based name.
	BackupName string

	// VerifyBackup opens the finished backup and checks it is a readable
	// SQLite database.
	VerifyBackup bool

	// Password, when set, encrypts the backup file after verification.
	// Encrypted backups carry an extra .enc extension.
	Password string
}

// DefaultBackupConfig returns a BackupConfig with verification enabled.
func DefaultBackupConfig() *BackupConfig {
	return &BackupConfig{VerifyBackup: true}
}

// Backup writes a backup of the database and returns its path.
// VACUUM INTO produces a compacted copy without taking exclusive locks;
// if the driver rejects it the database file is copied instead.
func (bm *BackupManager) Backup(config *BackupConfig) (string, error) {
	if config == nil {
		config = DefaultBackupConfig()
	}

	backupDir := config.BackupDir
	if backupDir == "" {
		backupDir = bm.BackupDir()
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupName := config.BackupName
	if backupName == "" {
		backupName = "backup_" + time.Now().Format("20060102_150405")
	}
	backupPath := filepath.Join(backupDir, backupName+".db")

	source, err := sql.Open("sqlite", bm.dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	if _, err := source.Exec(fmt.Sprintf("VACUUM INTO %q", backupPath)); err != nil {
		if copyErr := copyFile(bm.dbPath, backupPath); copyErr != nil {
			return "", fmt.Errorf("failed to copy database: %w", copyErr)
		}
	}

	if config.VerifyBackup {
		if err := bm.VerifyBackup(backupPath); err != nil {
			_ = os.Remove(backupPath)
			return "", fmt.Errorf("backup verification failed: %w", err)
		}
	}

	if config.Password != "" {
		encPath := backupPath + encryptedBackupExt
		if err := EncryptFile(backupPath, encPath, DefaultEncryptionConfig(config.Password)); err != nil {
			_ = os.Remove(backupPath)
			_ = os.Remove(encPath)
			return "", fmt.Errorf("backup encryption failed: %w", err)
		}
		_ = os.Remove(backupPath)
		return encPath, nil
	}

	return backupPath, nil
}

// Restore replaces the current database with the given backup. The previous
// database file is kept next to it under an ".old" timestamp suffix. Callers
// must close open connections before restoring.
func (bm *BackupManager) Restore(backupPath, password string) error {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	tempPath := bm.dbPath + ".restore.tmp"

	encrypted, err := IsEncrypted(backupPath)
	if err != nil {
		return fmt.Errorf("failed to inspect backup: %w", err)
	}
	if encrypted {
		if password == "" {
			return fmt.Errorf("backup is encrypted and no password was given")
		}
		if err := DecryptFile(backupPath, tempPath, DefaultEncryptionConfig(password)); err != nil {
			_ = os.Remove(tempPath)
			return err
		}
	} else if err := copyFile(backupPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy backup: %w", err)
	}

	if err := bm.VerifyBackup(tempPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("backup verification failed: %w", err)
	}

	if _, err := os.Stat(bm.dbPath); err == nil {
		oldPath := bm.dbPath + ".old." + time.Now().Format("20060102_150405")
		if err := os.Rename(bm.dbPath, oldPath); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("failed to set aside current database: %w", err)
		}
	}

	// Stale WAL sidecars from the old database must not be replayed into
	// the restored file.
	_ = os.Remove(bm.dbPath + "-wal")
	_ = os.Remove(bm.dbPath + "-shm")

	if err := os.Rename(tempPath, bm.dbPath); err != nil {
		return fmt.Errorf("failed to move restored database into place: %w", err)
	}
	return nil
}

// VerifyBackup checks that a backup file is a readable SQLite database.
func (bm *BackupManager) VerifyBackup(backupPath string) error {
	db, err := sql.Open("sqlite", backupPath)
	if err != nil {
		return fmt.Errorf("failed to open backup as database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping backup database: %w", err)
	}

	// Reading sqlite_master forces the header page, so a junk file fails here.
	var tables int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&tables); err != nil {
		return fmt.Errorf("failed to query backup database: %w", err)
	}
	return nil
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path      string
	Name      string
	Size      int64
	ModTime   time.Time
	Checksum  string
	Encrypted bool
}

// ListBackups returns the backup files in the given directory, or in the
// default backup directory when dir is empty.
func (bm *BackupManager) ListBackups(dir string) ([]BackupInfo, error) {
	if dir == "" {
		dir = bm.BackupDir()
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		encrypted := strings.HasSuffix(name, ".db"+encryptedBackupExt)
		if !encrypted && !strings.HasSuffix(name, ".db") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, name)
		checksum, err := fileChecksum(path)
		if err != nil {
			checksum = "unknown"
		}

		backups = append(backups, BackupInfo{
			Path:      path,
			Name:      name,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Checksum:  checksum,
			Encrypted: encrypted,
		})
	}
	return backups, nil
}

// BackupDir returns the default backup directory next to the database.
func (bm *BackupManager) BackupDir() string {
	return filepath.Join(filepath.Dir(bm.dbPath), "backups")
}

// fileChecksum computes the SHA-256 checksum of a file.
func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func copyFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dest, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dest, src); err != nil {
		_ = dest.Close()
		_ = os.Remove(destPath)
		return err
	}
	return dest.Close()
}
