package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/atelierhq/atelier/internal/storage/models"
	_ "modernc.org/sqlite"
)

func setupScanTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE scans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			image_count INTEGER NOT NULL DEFAULT 0,
			collection_count INTEGER NOT NULL DEFAULT 0,
			added INTEGER NOT NULL DEFAULT 0,
			updated INTEGER NOT NULL DEFAULT 0,
			missing INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}

	return db
}

func testScanRecord(started time.Time) *models.ScanRecord {
	return &models.ScanRecord{
		StartedAt:       started,
		FinishedAt:      started.Add(3 * time.Second),
		ImageCount:      10,
		CollectionCount: 2,
		Added:           10,
	}
}

func TestScanRepository_Insert(t *testing.T) {
	db := setupScanTestDB(t)
	repo := NewScanRepository(db)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := testScanRecord(started)

	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("Failed to insert scan: %v", err)
	}
	if rec.ID == 0 {
		t.Error("Expected ID to be set after insert")
	}

	got, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Failed to get latest scan: %v", err)
	}
	if got == nil {
		t.Fatal("Expected scan record, got nil")
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("Expected started at %v, got %v", started, got.StartedAt)
	}
	if !got.FinishedAt.Equal(started.Add(3 * time.Second)) {
		t.Errorf("Expected finished at %v, got %v", started.Add(3*time.Second), got.FinishedAt)
	}
	if got.ImageCount != 10 || got.Added != 10 {
		t.Errorf("Expected 10 images and 10 added, got %d and %d", got.ImageCount, got.Added)
	}
}

func TestScanRepository_Recent(t *testing.T) {
	db := setupScanTestDB(t)
	repo := NewScanRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := repo.Insert(ctx, testScanRecord(base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Failed to insert scan %d: %v", i, err)
		}
	}

	scans, err := repo.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to list recent scans: %v", err)
	}
	if len(scans) != 3 {
		t.Fatalf("Expected 3 scans, got %d", len(scans))
	}

	// Newest first.
	for i := 1; i < len(scans); i++ {
		if scans[i-1].ID <= scans[i].ID {
			t.Errorf("Expected descending IDs, got %d then %d", scans[i-1].ID, scans[i].ID)
		}
	}
	if !scans[0].StartedAt.Equal(base.Add(4 * time.Hour)) {
		t.Errorf("Expected newest scan first, got started at %v", scans[0].StartedAt)
	}
}

func TestScanRepository_LatestEmpty(t *testing.T) {
	db := setupScanTestDB(t)
	repo := NewScanRepository(db)

	got, err := repo.Latest(context.Background())
	if err != nil {
		t.Fatalf("Expected no error on empty table, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil on empty table, got %+v", got)
	}
}
