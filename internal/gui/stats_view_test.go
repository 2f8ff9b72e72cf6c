package gui

import (
	"testing"
	"time"

	"github.com/atelierhq/atelier/internal/storage/models"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"kilobytes", 2048, "2.0 KB"},
		{"megabytes", 5 * 1024 * 1024, "5.0 MB"},
		{"fractional megabytes", 1536 * 1024, "1.5 MB"},
		{"gigabytes", 3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatBytes(tt.bytes); got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestCollectionDataPoints(t *testing.T) {
	stats := &models.LibraryStats{
		ByCollection: []models.CollectionCount{
			{Key: "ink-studies", DisplayName: "Ink Studies", Images: 12},
			{Key: "oils", DisplayName: "Oils", Images: 5},
		},
	}

	points := collectionDataPoints(stats)
	if len(points) != 2 {
		t.Fatalf("collectionDataPoints() returned %d points, want 2", len(points))
	}
	if points[0].Label != "Ink Studies" || points[0].Value != 12 {
		t.Errorf("points[0] = %+v, want {Ink Studies 12}", points[0])
	}
	if points[1].Label != "Oils" || points[1].Value != 5 {
		t.Errorf("points[1] = %+v, want {Oils 5}", points[1])
	}
}

func TestScanDataPoints(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// RecentScans returns newest first; chart data runs oldest first.
	scans := []*models.ScanRecord{
		{FinishedAt: base.Add(2 * time.Hour), ImageCount: 30},
		{FinishedAt: base.Add(time.Hour), ImageCount: 20},
		{FinishedAt: base, ImageCount: 10},
	}

	points := scanDataPoints(scans)
	if len(points) != 3 {
		t.Fatalf("scanDataPoints() returned %d points, want 3", len(points))
	}
	for i, want := range []float64{10, 20, 30} {
		if points[i].Value != want {
			t.Errorf("points[%d].Value = %v, want %v", i, points[i].Value, want)
		}
	}
}
