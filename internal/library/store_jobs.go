package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnqueueJob creates a queued job record with a serialized payload.
func (s *Store) EnqueueJob(ctx context.Context, name string, payload any) (*JobRecord, error) {
	if name == "" {
		return nil, errors.New("job name is required")
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}
	id := uuid.NewString()
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO jobs (id, name, status, payload_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, JobQueued, string(payloadJSON), timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return s.JobByID(ctx, id)
}

// JobByID fetches a job record.
func (s *Store) JobByID(ctx context.Context, id string) (*JobRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	rec, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return rec, nil
}

// NextQueuedJob claims the oldest queued job by flipping it to running.
// It returns nil when nothing is queued.
func (s *Store) NextQueuedJob(ctx context.Context) (*JobRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = ? ORDER BY created_at ASC, id ASC LIMIT 1`,
		JobQueued,
	)
	rec, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next queued job: %w", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		JobRunning, timestamp, rec.ID, JobQueued,
	)
	if err != nil {
		return nil, fmt.Errorf("claim job %s: %w", rec.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Another worker claimed it between the select and the update.
		return nil, nil
	}
	return s.JobByID(ctx, rec.ID)
}

// UpdateJobProgress persists the per-step checkpoint and progress columns.
// Empty stateJSON or message leaves the stored value untouched, so a
// progress-only update cannot erase the last checkpoint.
func (s *Store) UpdateJobProgress(ctx context.Context, id, stateJSON, message string, percent float64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs SET state_json = COALESCE(?, state_json), progress_message = COALESCE(?, progress_message), progress_percent = ?, updated_at = ? WHERE id = ?`,
		nullableString(stateJSON), nullableString(message), percent, timestamp, id,
	)
	if err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	return nil
}

// FinishJob records a terminal status together with the final state payload.
func (s *Store) FinishJob(ctx context.Context, id string, status JobStatus, stateJSON, errorMessage string) error {
	if !status.Terminal() {
		return fmt.Errorf("status %q is not terminal", status)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs SET status = ?, state_json = ?, error_message = ?, updated_at = ?, completed_at = ? WHERE id = ?`,
		status, nullableString(stateJSON), nullableString(errorMessage), timestamp, timestamp, id,
	)
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return nil
}

// RecentJobs lists the newest job records, most recent first.
func (s *Store) RecentJobs(ctx context.Context, limit int) ([]JobRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		rec, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return records, nil
}
