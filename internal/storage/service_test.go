package storage

import (
	"context"
	"testing"
	"time"

	"github.com/atelierhq/atelier/internal/library"
)

// buildTestLibrary returns a scan result with one gallery-only image and a
// two-image collection.
func buildTestLibrary() *library.Library {
	modTime := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	cover := &library.Image{
		Path:     "/art/cover.jpg",
		RelPath:  "cover.jpg",
		FileName: "cover.jpg",
		Title:    "Cover",
		Size:     1500,
		ModTime:  modTime,
		Width:    1200,
		Height:   800,
	}
	first := &library.Image{
		Path:       "/art/ink_studies/01_first.png",
		RelPath:    "ink_studies/01_first.png",
		FileName:   "01_first.png",
		Title:      "01 First",
		Collection: "ink-studies",
		Size:       2048,
		ModTime:    modTime,
		Width:      800,
		Height:     600,
	}
	second := &library.Image{
		Path:       "/art/ink_studies/02_second.png",
		RelPath:    "ink_studies/02_second.png",
		FileName:   "02_second.png",
		Title:      "02 Second",
		Collection: "ink-studies",
		Size:       4096,
		ModTime:    modTime,
		Width:      800,
		Height:     600,
	}

	return &library.Library{
		ArtDir: "/art",
		Images: []*library.Image{cover, first, second},
		Collections: []*library.Collection{
			{
				Key:         "ink-studies",
				Name:        "ink_studies",
				DisplayName: "Ink Studies",
				Description: "Brush and ink warmups.",
				Images:      []*library.Image{first, second},
			},
		},
		ScannedAt: time.Now().UTC(),
	}
}

func TestSyncLibrary_FirstSync(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	result, err := svc.SyncLibrary(ctx, buildTestLibrary())
	if err != nil {
		t.Fatalf("Failed to sync library: %v", err)
	}

	if result.Added != 3 {
		t.Errorf("Expected 3 added, got %d", result.Added)
	}
	if result.Updated != 0 {
		t.Errorf("Expected 0 updated, got %d", result.Updated)
	}
	if result.Missing != 0 {
		t.Errorf("Expected 0 missing, got %d", result.Missing)
	}
	if result.Images != 3 || result.Collections != 1 {
		t.Errorf("Expected 3 images and 1 collection, got %d and %d", result.Images, result.Collections)
	}

	images, err := svc.Images(ctx)
	if err != nil {
		t.Fatalf("Failed to list images: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("Expected 3 indexed images, got %d", len(images))
	}
	if images[0].RelPath != "cover.jpg" {
		t.Errorf("Expected cover.jpg first, got %s", images[0].RelPath)
	}

	collections, err := svc.Collections(ctx)
	if err != nil {
		t.Fatalf("Failed to list collections: %v", err)
	}
	if len(collections) != 1 {
		t.Fatalf("Expected 1 collection, got %d", len(collections))
	}
	if collections[0].DisplayName != "Ink Studies" {
		t.Errorf("Expected display name 'Ink Studies', got '%s'", collections[0].DisplayName)
	}
	if collections[0].ImageCount != 2 {
		t.Errorf("Expected image count 2, got %d", collections[0].ImageCount)
	}

	collectionImages, err := svc.CollectionImages(ctx, "ink-studies")
	if err != nil {
		t.Fatalf("Failed to list collection images: %v", err)
	}
	if len(collectionImages) != 2 {
		t.Errorf("Expected 2 collection images, got %d", len(collectionImages))
	}
}

func TestSyncLibrary_SecondSyncUpdates(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SyncLibrary(ctx, buildTestLibrary()); err != nil {
		t.Fatalf("Failed to run first sync: %v", err)
	}

	result, err := svc.SyncLibrary(ctx, buildTestLibrary())
	if err != nil {
		t.Fatalf("Failed to run second sync: %v", err)
	}

	if result.Added != 0 {
		t.Errorf("Expected 0 added on second sync, got %d", result.Added)
	}
	if result.Updated != 3 {
		t.Errorf("Expected 3 updated on second sync, got %d", result.Updated)
	}
	if result.Missing != 0 {
		t.Errorf("Expected 0 missing on second sync, got %d", result.Missing)
	}

	images, err := svc.Images(ctx)
	if err != nil {
		t.Fatalf("Failed to list images: %v", err)
	}
	if len(images) != 3 {
		t.Errorf("Expected 3 indexed images after resync, got %d", len(images))
	}
}

func TestSyncLibrary_MarksMissing(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SyncLibrary(ctx, buildTestLibrary()); err != nil {
		t.Fatalf("Failed to run first sync: %v", err)
	}

	// Second image dropped from the scan.
	lib := buildTestLibrary()
	lib.Images = lib.Images[:2]
	lib.Collections[0].Images = lib.Collections[0].Images[:1]

	result, err := svc.SyncLibrary(ctx, lib)
	if err != nil {
		t.Fatalf("Failed to run second sync: %v", err)
	}

	if result.Missing != 1 {
		t.Errorf("Expected 1 missing, got %d", result.Missing)
	}

	images, err := svc.Images(ctx)
	if err != nil {
		t.Fatalf("Failed to list images: %v", err)
	}
	if len(images) != 2 {
		t.Errorf("Expected 2 present images, got %d", len(images))
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to load stats: %v", err)
	}
	if stats.MissingImages != 1 {
		t.Errorf("Expected 1 missing image in stats, got %d", stats.MissingImages)
	}
}

func TestSyncLibrary_RestoresMissing(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SyncLibrary(ctx, buildTestLibrary()); err != nil {
		t.Fatalf("Failed to run first sync: %v", err)
	}

	lib := buildTestLibrary()
	lib.Images = lib.Images[:2]
	lib.Collections[0].Images = lib.Collections[0].Images[:1]
	if _, err := svc.SyncLibrary(ctx, lib); err != nil {
		t.Fatalf("Failed to run shrinking sync: %v", err)
	}

	// Image reappears on disk.
	result, err := svc.SyncLibrary(ctx, buildTestLibrary())
	if err != nil {
		t.Fatalf("Failed to run restoring sync: %v", err)
	}

	if result.Added != 0 {
		t.Errorf("Expected 0 added on restore, got %d", result.Added)
	}
	if result.Missing != 0 {
		t.Errorf("Expected 0 missing after restore, got %d", result.Missing)
	}

	images, err := svc.Images(ctx)
	if err != nil {
		t.Fatalf("Failed to list images: %v", err)
	}
	if len(images) != 3 {
		t.Errorf("Expected 3 present images after restore, got %d", len(images))
	}
}

func TestSyncLibrary_DropsVanishedCollections(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SyncLibrary(ctx, buildTestLibrary()); err != nil {
		t.Fatalf("Failed to run first sync: %v", err)
	}

	lib := buildTestLibrary()
	lib.Images = lib.Images[:1]
	lib.Collections = nil

	if _, err := svc.SyncLibrary(ctx, lib); err != nil {
		t.Fatalf("Failed to run second sync: %v", err)
	}

	collections, err := svc.Collections(ctx)
	if err != nil {
		t.Fatalf("Failed to list collections: %v", err)
	}
	if len(collections) != 0 {
		t.Errorf("Expected 0 collections after they vanished, got %d", len(collections))
	}
}

func TestSyncLibrary_NilLibrary(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.SyncLibrary(context.Background(), nil); err == nil {
		t.Error("Expected error for nil library")
	}
}

func TestStats(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SyncLibrary(ctx, buildTestLibrary()); err != nil {
		t.Fatalf("Failed to sync library: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to load stats: %v", err)
	}

	if stats.TotalImages != 3 {
		t.Errorf("Expected 3 total images, got %d", stats.TotalImages)
	}
	if stats.TotalCollections != 1 {
		t.Errorf("Expected 1 total collection, got %d", stats.TotalCollections)
	}
	if wantBytes := int64(1500 + 2048 + 4096); stats.TotalBytes != wantBytes {
		t.Errorf("Expected %d total bytes, got %d", wantBytes, stats.TotalBytes)
	}
	if stats.MissingImages != 0 {
		t.Errorf("Expected 0 missing images, got %d", stats.MissingImages)
	}

	if len(stats.ByCollection) != 1 || stats.ByCollection[0].Images != 2 {
		t.Errorf("Expected one collection bucket with 2 images, got %+v", stats.ByCollection)
	}

	if len(stats.ByExtension) != 2 {
		t.Fatalf("Expected 2 extension buckets, got %d", len(stats.ByExtension))
	}
	if stats.ByExtension[0].Ext != ".png" || stats.ByExtension[0].Images != 2 {
		t.Errorf("Expected .png bucket with 2 images first, got %+v", stats.ByExtension[0])
	}
	if stats.ByExtension[1].Ext != ".jpg" || stats.ByExtension[1].Images != 1 {
		t.Errorf("Expected .jpg bucket with 1 image second, got %+v", stats.ByExtension[1])
	}

	if stats.LastScan == nil {
		t.Fatal("Expected last scan record")
	}
	if stats.LastScan.ImageCount != 3 {
		t.Errorf("Expected last scan image count 3, got %d", stats.LastScan.ImageCount)
	}
}

func TestStatsEmptyIndex(t *testing.T) {
	svc := setupTestService(t)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Failed to load stats on empty index: %v", err)
	}

	if stats.TotalImages != 0 || stats.TotalBytes != 0 {
		t.Errorf("Expected zeroed totals, got %d images and %d bytes", stats.TotalImages, stats.TotalBytes)
	}
	if stats.LastScan != nil {
		t.Errorf("Expected no last scan, got %+v", stats.LastScan)
	}
}

func TestRecentScans(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SyncLibrary(ctx, buildTestLibrary()); err != nil {
		t.Fatalf("Failed to run first sync: %v", err)
	}
	if _, err := svc.SyncLibrary(ctx, buildTestLibrary()); err != nil {
		t.Fatalf("Failed to run second sync: %v", err)
	}

	scans, err := svc.RecentScans(ctx, 5)
	if err != nil {
		t.Fatalf("Failed to list recent scans: %v", err)
	}

	if len(scans) != 2 {
		t.Fatalf("Expected 2 scan records, got %d", len(scans))
	}
	if scans[0].ID <= scans[1].ID {
		t.Errorf("Expected newest scan first, got IDs %d and %d", scans[0].ID, scans[1].ID)
	}
	if scans[0].Updated != 3 {
		t.Errorf("Expected newest scan to record 3 updates, got %d", scans[0].Updated)
	}
	if scans[1].Added != 3 {
		t.Errorf("Expected first scan to record 3 additions, got %d", scans[1].Added)
	}
}

func TestPruneMissing(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SyncLibrary(ctx, buildTestLibrary()); err != nil {
		t.Fatalf("Failed to run first sync: %v", err)
	}

	lib := buildTestLibrary()
	lib.Images = lib.Images[:2]
	lib.Collections[0].Images = lib.Collections[0].Images[:1]
	if _, err := svc.SyncLibrary(ctx, lib); err != nil {
		t.Fatalf("Failed to run shrinking sync: %v", err)
	}

	pruned, err := svc.PruneMissing(ctx)
	if err != nil {
		t.Fatalf("Failed to prune missing images: %v", err)
	}
	if pruned != 1 {
		t.Errorf("Expected 1 pruned row, got %d", pruned)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to load stats: %v", err)
	}
	if stats.MissingImages != 0 {
		t.Errorf("Expected 0 missing images after prune, got %d", stats.MissingImages)
	}
	if stats.TotalImages != 2 {
		t.Errorf("Expected 2 total images after prune, got %d", stats.TotalImages)
	}
}

func TestResetIndex(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SyncLibrary(ctx, buildTestLibrary()); err != nil {
		t.Fatalf("Failed to sync library: %v", err)
	}

	if err := svc.ResetIndex(ctx); err != nil {
		t.Fatalf("Failed to reset index: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to load stats after reset: %v", err)
	}
	if stats.TotalImages != 0 {
		t.Errorf("Expected 0 images after reset, got %d", stats.TotalImages)
	}
	if stats.LastScan != nil {
		t.Error("Expected no scan records after reset")
	}

	collections, err := svc.Collections(ctx)
	if err != nil {
		t.Fatalf("Failed to list collections after reset: %v", err)
	}
	if len(collections) != 0 {
		t.Errorf("Expected 0 collections after reset, got %d", len(collections))
	}
}
