package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateOrGetObject inserts an object for casID unless one already exists
// and returns the stored row either way. The conditional insert keyed on the
// cas id unique constraint is what keeps concurrent workers processing
// identical content from creating duplicate objects; no in-process lock is
// involved. The second return value reports whether this call created the row.
func (s *Store) CreateOrGetObject(ctx context.Context, casID, kind string, sizeBytes int64, modTime *time.Time) (*Object, bool, error) {
	if casID == "" {
		return nil, false, errors.New("cas id is required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO objects (cas_id, kind, size_bytes, mod_time, created_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT (cas_id) DO NOTHING`,
		casID, kind, sizeBytes, nullableTime(modTime), timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert object: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	obj, err := s.ObjectByCasID(ctx, casID)
	if err != nil {
		return nil, false, err
	}
	return obj, inserted == 1, nil
}

// ObjectByCasID fetches an object by content identifier.
func (s *Store) ObjectByCasID(ctx context.Context, casID string) (*Object, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+objectColumns+` FROM objects WHERE cas_id = ?`, casID)
	obj, err := scanObject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("object %q: %w", casID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return obj, nil
}

// ObjectCount returns the number of object rows.
func (s *Store) ObjectCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM objects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count objects: %w", err)
	}
	return count, nil
}
