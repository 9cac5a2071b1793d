package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/progress"
)

var _ progress.Store = (*Store)(nil)

// Store keeps job status in Postgres so the API and separate workers see the
// same progress.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Set(ctx context.Context, jobID uuid.UUID, status progress.Status, ttl time.Duration) error {
	status.JobID = jobID
	status.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}

	query := `
		INSERT INTO import_progress (job_id, status, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id) DO UPDATE SET status = EXCLUDED.status, expires_at = EXCLUDED.expires_at
	`

	if _, err := s.db.ExecContext(ctx, query, jobID, payload, status.UpdatedAt.Add(ttl)); err != nil {
		return fmt.Errorf("saving job status: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, jobID uuid.UUID) (progress.Status, error) {
	var payload []byte

	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM import_progress WHERE job_id = $1 AND expires_at > NOW()`, jobID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.Status{}, progress.ErrNotFound
	}

	if err != nil {
		return progress.Status{}, fmt.Errorf("getting job status: %w", err)
	}

	var status progress.Status
	if err := json.Unmarshal(payload, &status); err != nil {
		return progress.Status{}, fmt.Errorf("decoding job status: %w", err)
	}

	return status, nil
}

func (s *Store) Purge(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM import_progress WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purging job status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging job status: %w", err)
	}

	return int(n), nil
}
