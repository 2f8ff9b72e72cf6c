package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/atelierhq/atelier/internal/storage/models"
	_ "modernc.org/sqlite"
)

func setupCollectionTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE collections (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			display_name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_count INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0,
			first_seen_at TEXT NOT NULL,
			last_seen_at TEXT NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}

	return db
}

func testCollectionRecord(key string, position int) *models.CollectionRecord {
	return &models.CollectionRecord{
		Key:         key,
		Name:        key,
		DisplayName: "Test Collection",
		Description: "A few test pieces.",
		ImageCount:  2,
		Position:    position,
	}
}

func TestCollectionRepository_UpsertInsert(t *testing.T) {
	db := setupCollectionTestDB(t)
	repo := NewCollectionRepository(db)
	ctx := context.Background()

	seenAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := testCollectionRecord("ink-studies", 0)

	created, err := repo.Upsert(ctx, rec, seenAt)
	if err != nil {
		t.Fatalf("Failed to upsert collection: %v", err)
	}
	if !created {
		t.Error("Expected created to be true for a new row")
	}
	if !rec.FirstSeenAt.Equal(seenAt) || !rec.LastSeenAt.Equal(seenAt) {
		t.Errorf("Expected seen stamps %v, got first=%v last=%v", seenAt, rec.FirstSeenAt, rec.LastSeenAt)
	}

	got, err := repo.Get(ctx, "ink-studies")
	if err != nil {
		t.Fatalf("Failed to get collection: %v", err)
	}
	if got == nil {
		t.Fatal("Expected collection, got nil")
	}
	if got.DisplayName != "Test Collection" {
		t.Errorf("Expected display name 'Test Collection', got '%s'", got.DisplayName)
	}
	if got.ImageCount != 2 {
		t.Errorf("Expected image count 2, got %d", got.ImageCount)
	}
}

func TestCollectionRepository_UpsertUpdate(t *testing.T) {
	db := setupCollectionTestDB(t)
	repo := NewCollectionRepository(db)
	ctx := context.Background()

	seen1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seen2 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	if _, err := repo.Upsert(ctx, testCollectionRecord("ink-studies", 0), seen1); err != nil {
		t.Fatalf("Failed to insert collection: %v", err)
	}

	update := testCollectionRecord("ink-studies", 1)
	update.ImageCount = 5
	update.Description = "Grew over the month."

	created, err := repo.Upsert(ctx, update, seen2)
	if err != nil {
		t.Fatalf("Failed to update collection: %v", err)
	}
	if created {
		t.Error("Expected created to be false for an existing row")
	}
	if !update.FirstSeenAt.Equal(seen1) {
		t.Errorf("Expected first seen %v to be kept, got %v", seen1, update.FirstSeenAt)
	}

	got, err := repo.Get(ctx, "ink-studies")
	if err != nil {
		t.Fatalf("Failed to get collection: %v", err)
	}
	if got.ImageCount != 5 {
		t.Errorf("Expected image count 5 after update, got %d", got.ImageCount)
	}
	if got.Description != "Grew over the month." {
		t.Errorf("Expected updated description, got '%s'", got.Description)
	}
	if !got.LastSeenAt.Equal(seen2) {
		t.Errorf("Expected last seen %v, got %v", seen2, got.LastSeenAt)
	}
}

func TestCollectionRepository_GetNotFound(t *testing.T) {
	db := setupCollectionTestDB(t)
	repo := NewCollectionRepository(db)

	got, err := repo.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Expected no error for unknown key, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for unknown key, got %+v", got)
	}
}

func TestCollectionRepository_List(t *testing.T) {
	db := setupCollectionTestDB(t)
	repo := NewCollectionRepository(db)
	ctx := context.Background()

	seenAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, key := range []string{"watercolor", "ink-studies", "oil"} {
		if _, err := repo.Upsert(ctx, testCollectionRecord(key, i), seenAt); err != nil {
			t.Fatalf("Failed to insert %s: %v", key, err)
		}
	}

	collections, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list collections: %v", err)
	}
	if len(collections) != 3 {
		t.Fatalf("Expected 3 collections, got %d", len(collections))
	}

	// Position order, not key order.
	wantOrder := []string{"watercolor", "ink-studies", "oil"}
	for i, want := range wantOrder {
		if collections[i].Key != want {
			t.Errorf("Expected %s at index %d, got %s", want, i, collections[i].Key)
		}
	}
}

func TestCollectionRepository_DeleteUnseenBefore(t *testing.T) {
	db := setupCollectionTestDB(t)
	repo := NewCollectionRepository(db)
	ctx := context.Background()

	seen1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seen2 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	if _, err := repo.Upsert(ctx, testCollectionRecord("stale", 0), seen1); err != nil {
		t.Fatalf("Failed to insert stale collection: %v", err)
	}
	if _, err := repo.Upsert(ctx, testCollectionRecord("fresh", 1), seen2); err != nil {
		t.Fatalf("Failed to insert fresh collection: %v", err)
	}

	deleted, err := repo.DeleteUnseenBefore(ctx, seen2)
	if err != nil {
		t.Fatalf("Failed to delete unseen collections: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted collection, got %d", deleted)
	}

	collections, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list collections: %v", err)
	}
	if len(collections) != 1 || collections[0].Key != "fresh" {
		t.Errorf("Expected only 'fresh' to remain, got %+v", collections)
	}
}

func TestCollectionRepository_Counts(t *testing.T) {
	db := setupCollectionTestDB(t)
	repo := NewCollectionRepository(db)
	ctx := context.Background()

	seenAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	ink := testCollectionRecord("ink-studies", 0)
	ink.DisplayName = "Ink Studies"
	ink.ImageCount = 4
	oil := testCollectionRecord("oil", 1)
	oil.DisplayName = "Oil"
	oil.ImageCount = 1

	for _, rec := range []*models.CollectionRecord{ink, oil} {
		if _, err := repo.Upsert(ctx, rec, seenAt); err != nil {
			t.Fatalf("Failed to insert %s: %v", rec.Key, err)
		}
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("Failed to count collections: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("Expected 2 count buckets, got %d", len(counts))
	}
	if counts[0].Key != "ink-studies" || counts[0].Images != 4 {
		t.Errorf("Expected ink-studies with 4 images first, got %+v", counts[0])
	}
	if counts[1].DisplayName != "Oil" || counts[1].Images != 1 {
		t.Errorf("Expected Oil with 1 image second, got %+v", counts[1])
	}
}
