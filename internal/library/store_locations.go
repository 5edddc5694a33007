package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const locationColumns = "id, name, path, created_at, updated_at"

func scanLocation(scanner interface{ Scan(dest ...any) error }) (*Location, error) {
	var (
		loc        Location
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(&loc.ID, &loc.Name, &loc.Path, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		loc.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		loc.UpdatedAt = updated
	}
	return &loc, nil
}

// CreateLocation registers a new scanned root.
func (s *Store) CreateLocation(ctx context.Context, name, path string) (*Location, error) {
	if path == "" {
		return nil, errors.New("location path is required")
	}
	if name == "" {
		name = path
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO locations (name, path, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, path, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert location: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.LocationByID(ctx, id)
}

// LocationByID fetches a location by identifier.
func (s *Store) LocationByID(ctx context.Context, id int64) (*Location, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id)
	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

// LocationByPath fetches a location by its root path.
func (s *Store) LocationByPath(ctx context.Context, path string) (*Location, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE path = ?`, path)
	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get location by path: %w", err)
	}
	return loc, nil
}

// Locations lists all registered locations ordered by id.
func (s *Store) Locations(ctx context.Context) ([]Location, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, *loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return locations, nil
}
