package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// orphanWhere builds the filter selecting identifiable orphan rows: files
// without an object link in the given location, optionally bounded below by
// cursor and restricted to a materialized-path subtree prefix.
func orphanWhere(locationID int64, cursor int64, scopePrefix string) (string, []any) {
	clause := "object_id IS NULL AND is_dir = 0 AND location_id = ?"
	args := []any{locationID}
	if cursor > 0 {
		clause += " AND id >= ?"
		args = append(args, cursor)
	}
	if scopePrefix != "" {
		clause += ` AND materialized_path LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(scopePrefix)+"%")
	}
	return clause, args
}

// CountOrphanFilePaths counts orphan files in a location, optionally scoped
// to a subtree prefix.
func (s *Store) CountOrphanFilePaths(ctx context.Context, locationID int64, scopePrefix string) (int64, error) {
	clause, args := orphanWhere(locationID, 0, scopePrefix)
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM file_paths WHERE `+clause, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orphan file paths: %w", err)
	}
	return count, nil
}

// FirstOrphanFilePathID returns the smallest orphan file path id matching the
// filter. Callers are expected to have verified the orphan count first;
// ErrNotFound is returned when no orphan exists.
func (s *Store) FirstOrphanFilePathID(ctx context.Context, locationID int64, scopePrefix string) (int64, error) {
	clause, args := orphanWhere(locationID, 0, scopePrefix)
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM file_paths WHERE `+clause+` ORDER BY id ASC LIMIT 1`, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("first orphan file path: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("first orphan file path: %w", err)
	}
	return id, nil
}

// OrphanFilePathBatch returns up to limit orphan rows with id >= cursor,
// ordered ascending by id. Ascending order over the immutable id is what
// makes successive batches a true partition of the orphan set.
func (s *Store) OrphanFilePathBatch(ctx context.Context, locationID, cursor int64, scopePrefix string, limit int) ([]FilePath, error) {
	clause, args := orphanWhere(locationID, cursor, scopePrefix)
	args = append(args, limit)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+filePathColumns+` FROM file_paths WHERE `+clause+` ORDER BY id ASC LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch orphan batch: %w", err)
	}
	defer rows.Close()

	var batch []FilePath
	for rows.Next() {
		fp, err := scanFilePath(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file path: %w", err)
		}
		batch = append(batch, *fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orphan batch: %w", err)
	}
	return batch, nil
}

// CountFilePaths counts all file (non-directory) rows in a location.
func (s *Store) CountFilePaths(ctx context.Context, locationID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM file_paths WHERE location_id = ? AND is_dir = 0`,
		locationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count file paths: %w", err)
	}
	return count, nil
}

// FilePathByID fetches a file path row by identifier.
func (s *Store) FilePathByID(ctx context.Context, id int64) (*FilePath, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+filePathColumns+` FROM file_paths WHERE id = ?`, id)
	fp, err := scanFilePath(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file path %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get file path: %w", err)
	}
	return fp, nil
}

// DirectoryExists reports whether a directory row with the given
// materialized path and name is indexed for the location.
func (s *Store) DirectoryExists(ctx context.Context, locationID int64, materializedPath, name string) (bool, error) {
	var count int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM file_paths WHERE location_id = ? AND materialized_path = ? AND name = ? AND is_dir = 1`,
		locationID, materializedPath, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check directory row: %w", err)
	}
	return count > 0, nil
}

// UpsertFilePath inserts a discovered entry or refreshes size and mod time
// on the existing row. It reports whether a new row was created.
func (s *Store) UpsertFilePath(ctx context.Context, fp *FilePath) (*FilePath, bool, error) {
	if fp == nil {
		return nil, false, errors.New("file path is nil")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO file_paths (
            location_id, materialized_path, name, extension, is_dir,
            size_bytes, mod_time, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (location_id, materialized_path, name, extension, is_dir)
        DO NOTHING`,
		fp.LocationID,
		fp.MaterializedPath,
		fp.Name,
		fp.Extension,
		boolToInt(fp.IsDir),
		fp.SizeBytes,
		nullableTime(fp.ModTime),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert file path: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	if inserted == 0 {
		if _, err := s.db.ExecContext(
			ctx,
			`UPDATE file_paths SET size_bytes = ?, mod_time = ?, updated_at = ?
             WHERE location_id = ? AND materialized_path = ? AND name = ? AND extension = ? AND is_dir = ?`,
			fp.SizeBytes,
			nullableTime(fp.ModTime),
			timestamp,
			fp.LocationID,
			fp.MaterializedPath,
			fp.Name,
			fp.Extension,
			boolToInt(fp.IsDir),
		); err != nil {
			return nil, false, fmt.Errorf("refresh file path: %w", err)
		}
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+filePathColumns+` FROM file_paths
         WHERE location_id = ? AND materialized_path = ? AND name = ? AND extension = ? AND is_dir = ?`,
		fp.LocationID, fp.MaterializedPath, fp.Name, fp.Extension, boolToInt(fp.IsDir),
	)
	stored, err := scanFilePath(row)
	if err != nil {
		return nil, false, fmt.Errorf("reload file path: %w", err)
	}
	return stored, inserted == 1, nil
}

// LinkFilePath attaches a file path to its object.
func (s *Store) LinkFilePath(ctx context.Context, filePathID, objectID int64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE file_paths SET object_id = ?, updated_at = ? WHERE id = ?`,
		objectID, timestamp, filePathID,
	)
	if err != nil {
		return fmt.Errorf("link file path %d: %w", filePathID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("link file path %d: %w", filePathID, ErrNotFound)
	}
	return nil
}
