package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/atelierhq/atelier/internal/storage/models"
)

// CollectionRepository handles database operations for indexed collections.
type CollectionRepository interface {
	// Upsert inserts the collection or refreshes an existing row, stamping
	// it as seen. Reports whether a new row was created.
	Upsert(ctx context.Context, rec *models.CollectionRecord, seenAt time.Time) (bool, error)

	// Get retrieves a collection by key, or nil.
	Get(ctx context.Context, key string) (*models.CollectionRecord, error)

	// List retrieves all collections in display order.
	List(ctx context.Context) ([]*models.CollectionRecord, error)

	// DeleteUnseenBefore removes collections not seen since the cutoff and
	// returns how many.
	DeleteUnseenBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Counts returns per-collection image counts in display order.
	Counts(ctx context.Context) ([]models.CollectionCount, error)
}

// collectionRepository is the concrete implementation of CollectionRepository.
type collectionRepository struct {
	db DBTX
}

// NewCollectionRepository creates a new collection repository.
func NewCollectionRepository(db DBTX) CollectionRepository {
	return &collectionRepository{db: db}
}

const collectionColumns = `key, name, display_name, description, image_count,
		position, first_seen_at, last_seen_at`

// Upsert inserts the collection or refreshes an existing row.
func (r *collectionRepository) Upsert(ctx context.Context, rec *models.CollectionRecord, seenAt time.Time) (bool, error) {
	existing, err := r.Get(ctx, rec.Key)
	if err != nil {
		return false, err
	}

	seen := formatTime(seenAt)
	if existing == nil {
		query := `
			INSERT INTO collections (key, name, display_name, description,
				image_count, position, first_seen_at, last_seen_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := r.db.ExecContext(ctx, query,
			rec.Key,
			rec.Name,
			rec.DisplayName,
			rec.Description,
			rec.ImageCount,
			rec.Position,
			seen,
			seen,
		)
		if err != nil {
			return false, err
		}
		rec.FirstSeenAt = seenAt
		rec.LastSeenAt = seenAt
		return true, nil
	}

	query := `
		UPDATE collections
		SET name = ?, display_name = ?, description = ?, image_count = ?,
			position = ?, last_seen_at = ?
		WHERE key = ?
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.Name,
		rec.DisplayName,
		rec.Description,
		rec.ImageCount,
		rec.Position,
		seen,
		rec.Key,
	)
	if err != nil {
		return false, err
	}
	rec.FirstSeenAt = existing.FirstSeenAt
	rec.LastSeenAt = seenAt
	return false, nil
}

// Get retrieves a collection by key, or nil.
func (r *collectionRepository) Get(ctx context.Context, key string) (*models.CollectionRecord, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE key = ?`

	rec, err := r.scanCollection(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// List retrieves all collections in display order.
func (r *collectionRepository) List(ctx context.Context) ([]*models.CollectionRecord, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections ORDER BY position, key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*models.CollectionRecord
	for rows.Next() {
		rec, err := r.scanCollection(rows)
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

// DeleteUnseenBefore removes collections not seen since the cutoff.
func (r *collectionRepository) DeleteUnseenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM collections WHERE last_seen_at < ?`

	result, err := r.db.ExecContext(ctx, query, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Counts returns per-collection image counts in display order.
func (r *collectionRepository) Counts(ctx context.Context) ([]models.CollectionCount, error) {
	query := `SELECT key, display_name, image_count FROM collections ORDER BY position, key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var counts []models.CollectionCount
	for rows.Next() {
		var c models.CollectionCount
		if err := rows.Scan(&c.Key, &c.DisplayName, &c.Images); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *collectionRepository) scanCollection(row rowScanner) (*models.CollectionRecord, error) {
	rec := &models.CollectionRecord{}
	var firstSeen, lastSeen string

	err := row.Scan(
		&rec.Key,
		&rec.Name,
		&rec.DisplayName,
		&rec.Description,
		&rec.ImageCount,
		&rec.Position,
		&firstSeen,
		&lastSeen,
	)
	if err != nil {
		return nil, err
	}

	rec.FirstSeenAt = parseTime(firstSeen)
	rec.LastSeenAt = parseTime(lastSeen)
	return rec, nil
}
