package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/atelierhq/atelier/internal/storage/models"
)

// ImageRepository handles database operations for indexed images.
type ImageRepository interface {
	// Upsert inserts the image or refreshes an existing row keyed by relative
	// path, stamping it as seen. Reports whether a new row was created.
	Upsert(ctx context.Context, rec *models.ImageRecord, seenAt time.Time) (bool, error)

	// GetByRelPath retrieves an image by its relative path, or nil.
	GetByRelPath(ctx context.Context, relPath string) (*models.ImageRecord, error)

	// List retrieves images in display order, optionally including rows
	// marked missing.
	List(ctx context.Context, includeMissing bool) ([]*models.ImageRecord, error)

	// ListByCollection retrieves the present images of one collection in
	// display order.
	ListByCollection(ctx context.Context, collectionKey string) ([]*models.ImageRecord, error)

	// MarkMissingBefore marks rows not seen since the cutoff as missing and
	// returns how many changed.
	MarkMissingBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// PruneMissing deletes rows marked missing and returns how many.
	PruneMissing(ctx context.Context) (int64, error)

	// Totals returns the count and byte size of present images plus the
	// count of missing rows.
	Totals(ctx context.Context) (count int, bytes int64, missing int, err error)

	// CountByExtension buckets present images by lower-cased file extension.
	CountByExtension(ctx context.Context) ([]models.ExtensionCount, error)
}

// imageRepository is the concrete implementation of ImageRepository.
type imageRepository struct {
	db DBTX
}

// NewImageRepository creates a new image repository.
func NewImageRepository(db DBTX) ImageRepository {
	return &imageRepository{db: db}
}

const imageColumns = `id, rel_path, file_name, title, collection_key, size_bytes,
		width, height, mod_time, position, first_seen_at, last_seen_at, missing`

// Upsert inserts the image or refreshes an existing row.
func (r *imageRepository) Upsert(ctx context.Context, rec *models.ImageRecord, seenAt time.Time) (bool, error) {
	existing, err := r.GetByRelPath(ctx, rec.RelPath)
	if err != nil {
		return false, err
	}

	seen := formatTime(seenAt)
	if existing == nil {
		query := `
			INSERT INTO images (rel_path, file_name, title, collection_key, size_bytes,
				width, height, mod_time, position, first_seen_at, last_seen_at, missing)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		`
		result, err := r.db.ExecContext(ctx, query,
			rec.RelPath,
			rec.FileName,
			rec.Title,
			rec.CollectionKey,
			rec.SizeBytes,
			rec.Width,
			rec.Height,
			formatTime(rec.ModTime),
			rec.Position,
			seen,
			seen,
		)
		if err != nil {
			return false, err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return false, err
		}
		rec.ID = id
		rec.FirstSeenAt = seenAt
		rec.LastSeenAt = seenAt
		return true, nil
	}

	query := `
		UPDATE images
		SET file_name = ?, title = ?, collection_key = ?, size_bytes = ?,
			width = ?, height = ?, mod_time = ?, position = ?, last_seen_at = ?, missing = 0
		WHERE id = ?
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.FileName,
		rec.Title,
		rec.CollectionKey,
		rec.SizeBytes,
		rec.Width,
		rec.Height,
		formatTime(rec.ModTime),
		rec.Position,
		seen,
		existing.ID,
	)
	if err != nil {
		return false, err
	}
	rec.ID = existing.ID
	rec.FirstSeenAt = existing.FirstSeenAt
	rec.LastSeenAt = seenAt
	return false, nil
}

// GetByRelPath retrieves an image by its relative path, or nil.
func (r *imageRepository) GetByRelPath(ctx context.Context, relPath string) (*models.ImageRecord, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE rel_path = ?`

	rec, err := r.scanImage(r.db.QueryRowContext(ctx, query, relPath))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// List retrieves images in display order.
func (r *imageRepository) List(ctx context.Context, includeMissing bool) ([]*models.ImageRecord, error) {
	query := `SELECT ` + imageColumns + ` FROM images`
	if !includeMissing {
		query += ` WHERE missing = 0`
	}
	query += ` ORDER BY position, rel_path`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return r.scanImages(rows)
}

// ListByCollection retrieves the present images of one collection.
func (r *imageRepository) ListByCollection(ctx context.Context, collectionKey string) ([]*models.ImageRecord, error) {
	query := `SELECT ` + imageColumns + `
		FROM images
		WHERE collection_key = ? AND missing = 0
		ORDER BY position, rel_path`

	rows, err := r.db.QueryContext(ctx, query, collectionKey)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return r.scanImages(rows)
}

// MarkMissingBefore marks rows not seen since the cutoff as missing.
func (r *imageRepository) MarkMissingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE images SET missing = 1 WHERE missing = 0 AND last_seen_at < ?`

	result, err := r.db.ExecContext(ctx, query, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// PruneMissing deletes rows marked missing.
func (r *imageRepository) PruneMissing(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE missing = 1`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Totals returns present count, present bytes and missing count.
func (r *imageRepository) Totals(ctx context.Context) (int, int64, int, error) {
	query := `
		SELECT
			COUNT(CASE WHEN missing = 0 THEN 1 END),
			COALESCE(SUM(CASE WHEN missing = 0 THEN size_bytes END), 0),
			COUNT(CASE WHEN missing = 1 THEN 1 END)
		FROM images
	`

	var count, missing int
	var bytes int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count, &bytes, &missing); err != nil {
		return 0, 0, 0, err
	}
	return count, bytes, missing, nil
}

// CountByExtension buckets present images by file extension. SQLite has no
// suffix search, so the bucketing happens here.
func (r *imageRepository) CountByExtension(ctx context.Context) ([]models.ExtensionCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT file_name FROM images WHERE missing = 0`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		counts[strings.ToLower(filepath.Ext(name))]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.ExtensionCount, 0, len(counts))
	for ext, n := range counts {
		result = append(result, models.ExtensionCount{Ext: ext, Images: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Images != result[j].Images {
			return result[i].Images > result[j].Images
		}
		return result[i].Ext < result[j].Ext
	})
	return result, nil
}

// rowScanner lets scanImage work for both Row and Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *imageRepository) scanImage(row rowScanner) (*models.ImageRecord, error) {
	rec := &models.ImageRecord{}
	var modTime, firstSeen, lastSeen string
	var missing int

	err := row.Scan(
		&rec.ID,
		&rec.RelPath,
		&rec.FileName,
		&rec.Title,
		&rec.CollectionKey,
		&rec.SizeBytes,
		&rec.Width,
		&rec.Height,
		&modTime,
		&rec.Position,
		&firstSeen,
		&lastSeen,
		&missing,
	)
	if err != nil {
		return nil, err
	}

	rec.ModTime = parseTime(modTime)
	rec.FirstSeenAt = parseTime(firstSeen)
	rec.LastSeenAt = parseTime(lastSeen)
	rec.Missing = missing != 0
	return rec, nil
}

func (r *imageRepository) scanImages(rows *sql.Rows) ([]*models.ImageRecord, error) {
	var records []*models.ImageRecord
	for rows.Next() {
		rec, err := r.scanImage(rows)
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
