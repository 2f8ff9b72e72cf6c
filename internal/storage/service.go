package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atelierhq/atelier/internal/library"
	"github.com/atelierhq/atelier/internal/storage/models"
	"github.com/atelierhq/atelier/internal/storage/repository"
)

// Service provides high-level operations over the library index.
type Service struct {
	db          *DB
	images      repository.ImageRepository
	collections repository.CollectionRepository
	scans       repository.ScanRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:          db,
		images:      repository.NewImageRepository(db.Conn()),
		collections: repository.NewCollectionRepository(db.Conn()),
		scans:       repository.NewScanRepository(db.Conn()),
	}
}

// SyncResult summarizes one reconciliation of a scan against the index.
type SyncResult struct {
	Images      int           // Images present in the scan
	Collections int           // Collections present in the scan
	Added       int           // New image rows
	Updated     int           // Refreshed image rows
	Missing     int           // Rows newly marked missing
	Duration    time.Duration // Wall time of the sync
}

// SyncLibrary reconciles a fresh scan against the index inside one
// transaction: images and collections present in the scan are inserted or
// refreshed, indexed images no longer on disk are marked missing, and
// collections that vanished are dropped. A scan record is written last.
func (s *Service) SyncLibrary(ctx context.Context, lib *library.Library) (*SyncResult, error) {
	if lib == nil {
		return nil, fmt.Errorf("library cannot be nil")
	}

	started := time.Now().UTC()
	result := &SyncResult{
		Images:      len(lib.Images),
		Collections: len(lib.Collections),
	}

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		images := repository.NewImageRepository(tx)
		collections := repository.NewCollectionRepository(tx)
		scans := repository.NewScanRepository(tx)

		for position, c := range lib.Collections {
			if _, err := collections.Upsert(ctx, collectionRecord(c, position), started); err != nil {
				return fmt.Errorf("failed to store collection %s: %w", c.Key, err)
			}
		}

		for position, img := range lib.Images {
			created, err := images.Upsert(ctx, imageRecord(img, position), started)
			if err != nil {
				return fmt.Errorf("failed to store image %s: %w", img.RelPath, err)
			}
			if created {
				result.Added++
			} else {
				result.Updated++
			}
		}

		missing, err := images.MarkMissingBefore(ctx, started)
		if err != nil {
			return fmt.Errorf("failed to mark missing images: %w", err)
		}
		result.Missing = int(missing)

		if _, err := collections.DeleteUnseenBefore(ctx, started); err != nil {
			return fmt.Errorf("failed to drop stale collections: %w", err)
		}

		finished := time.Now().UTC()
		result.Duration = finished.Sub(started)

		return scans.Insert(ctx, &models.ScanRecord{
			StartedAt:       started,
			FinishedAt:      finished,
			ImageCount:      result.Images,
			CollectionCount: result.Collections,
			Added:           result.Added,
			Updated:         result.Updated,
			Missing:         result.Missing,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Images retrieves all present images in display order.
func (s *Service) Images(ctx context.Context) ([]*models.ImageRecord, error) {
	return s.images.List(ctx, false)
}

// CollectionImages retrieves the present images of one collection.
func (s *Service) CollectionImages(ctx context.Context, key string) ([]*models.ImageRecord, error) {
	return s.images.ListByCollection(ctx, key)
}

// Collections retrieves all collections in display order.
func (s *Service) Collections(ctx context.Context) ([]*models.CollectionRecord, error) {
	return s.collections.List(ctx)
}

// Stats assembles library statistics from the index.
func (s *Service) Stats(ctx context.Context) (*models.LibraryStats, error) {
	count, bytes, missing, err := s.images.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to total images: %w", err)
	}

	byCollection, err := s.collections.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collections: %w", err)
	}

	byExtension, err := s.images.CountByExtension(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count extensions: %w", err)
	}

	lastScan, err := s.scans.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load last scan: %w", err)
	}

	return &models.LibraryStats{
		TotalImages:      count,
		TotalCollections: len(byCollection),
		TotalBytes:       bytes,
		MissingImages:    missing,
		ByCollection:     byCollection,
		ByExtension:      byExtension,
		LastScan:         lastScan,
	}, nil
}

// RecentScans retrieves the newest scan records, most recent first.
func (s *Service) RecentScans(ctx context.Context, limit int) ([]*models.ScanRecord, error) {
	return s.scans.Recent(ctx, limit)
}

// PruneMissing deletes image rows marked missing and returns how many.
func (s *Service) PruneMissing(ctx context.Context) (int64, error) {
	return s.images.PruneMissing(ctx)
}

// ResetIndex removes every indexed image, collection and scan.
func (s *Service) ResetIndex(ctx context.Context) error {
	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"images", "collections", "scans"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Close closes the database connection.
func (s *Service) Close() error {
	return s.db.Close()
}

func imageRecord(img *library.Image, position int) *models.ImageRecord {
	return &models.ImageRecord{
		RelPath:       img.RelPath,
		FileName:      img.FileName,
		Title:         img.Title,
		CollectionKey: img.Collection,
		SizeBytes:     img.Size,
		Width:         img.Width,
		Height:        img.Height,
		ModTime:       img.ModTime,
		Position:      position,
	}
}

func collectionRecord(c *library.Collection, position int) *models.CollectionRecord {
	return &models.CollectionRecord{
		Key:         c.Key,
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Description: c.Description,
		ImageCount:  len(c.Images),
		Position:    position,
	}
}
