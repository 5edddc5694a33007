package library

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// escapeLike makes a string safe for use as a LIKE prefix with ESCAPE '\'.
func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

const filePathColumns = "id, location_id, materialized_path, name, extension, is_dir, size_bytes, mod_time, object_id, created_at, updated_at"

func scanFilePath(scanner interface{ Scan(dest ...any) error }) (*FilePath, error) {
	var (
		fp         FilePath
		isDir      int64
		modTimeRaw sql.NullString
		objectID   sql.NullInt64
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(
		&fp.ID,
		&fp.LocationID,
		&fp.MaterializedPath,
		&fp.Name,
		&fp.Extension,
		&isDir,
		&fp.SizeBytes,
		&modTimeRaw,
		&objectID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	fp.IsDir = isDir != 0
	if objectID.Valid {
		id := objectID.Int64
		fp.ObjectID = &id
	}
	if modTimeRaw.Valid {
		if mod, err := parseTimeString(modTimeRaw.String); err == nil {
			fp.ModTime = &mod
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		fp.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		fp.UpdatedAt = updated
	}
	return &fp, nil
}

const objectColumns = "id, cas_id, kind, size_bytes, mod_time, created_at"

func scanObject(scanner interface{ Scan(dest ...any) error }) (*Object, error) {
	var (
		obj        Object
		modTimeRaw sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(
		&obj.ID,
		&obj.CasID,
		&obj.Kind,
		&obj.SizeBytes,
		&modTimeRaw,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	if modTimeRaw.Valid {
		if mod, err := parseTimeString(modTimeRaw.String); err == nil {
			obj.ModTime = &mod
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		obj.CreatedAt = created
	}
	return &obj, nil
}

const jobColumns = "id, name, status, payload_json, state_json, error_message, progress_message, progress_percent, created_at, updated_at, completed_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*JobRecord, error) {
	var (
		rec          JobRecord
		statusStr    string
		stateRaw     sql.NullString
		errorRaw     sql.NullString
		progressRaw  sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
		completedRaw sql.NullString
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.Name,
		&statusStr,
		&rec.PayloadJSON,
		&stateRaw,
		&errorRaw,
		&progressRaw,
		&rec.ProgressPercent,
		&createdRaw,
		&updatedRaw,
		&completedRaw,
	); err != nil {
		return nil, err
	}
	rec.Status = JobStatus(statusStr)
	rec.StateJSON = stateRaw.String
	rec.ErrorMessage = errorRaw.String
	rec.ProgressMessage = progressRaw.String
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rec.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		rec.UpdatedAt = updated
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			rec.CompletedAt = &completed
		}
	}
	return &rec, nil
}
