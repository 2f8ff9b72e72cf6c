package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/atelierhq/atelier/internal/storage/models"
)

// ScanRepository records library sync runs.
type ScanRepository interface {
	// Insert stores a completed scan and fills in its ID.
	Insert(ctx context.Context, rec *models.ScanRecord) error

	// Recent retrieves the newest scans, most recent first.
	Recent(ctx context.Context, limit int) ([]*models.ScanRecord, error)

	// Latest retrieves the most recent scan, or nil.
	Latest(ctx context.Context) (*models.ScanRecord, error)
}

// scanRepository is the concrete implementation of ScanRepository.
type scanRepository struct {
	db DBTX
}

// NewScanRepository creates a new scan repository.
func NewScanRepository(db DBTX) ScanRepository {
	return &scanRepository{db: db}
}

// Insert stores a completed scan.
func (r *scanRepository) Insert(ctx context.Context, rec *models.ScanRecord) error {
	query := `
		INSERT INTO scans (started_at, finished_at, image_count, collection_count,
			added, updated, missing)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		formatTime(rec.StartedAt),
		formatTime(rec.FinishedAt),
		rec.ImageCount,
		rec.CollectionCount,
		rec.Added,
		rec.Updated,
		rec.Missing,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

// Recent retrieves the newest scans, most recent first.
func (r *scanRepository) Recent(ctx context.Context, limit int) ([]*models.ScanRecord, error) {
	query := `
		SELECT id, started_at, finished_at, image_count, collection_count,
			added, updated, missing
		FROM scans
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*models.ScanRecord
	for rows.Next() {
		rec, err := r.scanScan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Latest retrieves the most recent scan, or nil.
func (r *scanRepository) Latest(ctx context.Context) (*models.ScanRecord, error) {
	query := `
		SELECT id, started_at, finished_at, image_count, collection_count,
			added, updated, missing
		FROM scans
		ORDER BY id DESC
		LIMIT 1
	`

	rec, err := r.scanScan(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *scanRepository) scanScan(row rowScanner) (*models.ScanRecord, error) {
	rec := &models.ScanRecord{}
	var started, finished string

	err := row.Scan(
		&rec.ID,
		&started,
		&finished,
		&rec.ImageCount,
		&rec.CollectionCount,
		&rec.Added,
		&rec.Updated,
		&rec.Missing,
	)
	if err != nil {
		return nil, err
	}

	rec.StartedAt = parseTime(started)
	rec.FinishedAt = parseTime(finished)
	return rec, nil
}
