package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/dispatch"
	"github.com/MrJamesThe3rd/haulage/internal/importer"
)

var _ dispatch.Uploads = (*Store)(nil)

// ErrNotFound is returned when no upload is staged for a job.
var ErrNotFound = errors.New("staged upload not found")

// Store keeps uploaded files in Postgres until their job has run.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Stage(ctx context.Context, job importer.Job) error {
	opts, err := json.Marshal(job.Options)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}

	query := `INSERT INTO import_uploads (job_id, file_name, data, options) VALUES ($1, $2, $3, $4)`

	if _, err := s.db.ExecContext(ctx, query, job.ID, job.FileName, job.Data, opts); err != nil {
		return fmt.Errorf("staging upload: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context, id uuid.UUID) (importer.Job, error) {
	job := importer.Job{ID: id}

	var opts []byte

	err := s.db.QueryRowContext(ctx,
		`SELECT file_name, data, options FROM import_uploads WHERE job_id = $1`, id,
	).Scan(&job.FileName, &job.Data, &opts)
	if errors.Is(err, sql.ErrNoRows) {
		return importer.Job{}, ErrNotFound
	}

	if err != nil {
		return importer.Job{}, fmt.Errorf("loading upload: %w", err)
	}

	if err := json.Unmarshal(opts, &job.Options); err != nil {
		return importer.Job{}, fmt.Errorf("decoding options: %w", err)
	}

	return job, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM import_uploads WHERE job_id = $1`, id); err != nil {
		return fmt.Errorf("deleting upload: %w", err)
	}

	return nil
}

// Purge drops uploads staged before the cutoff whose job never ran.
func (s *Store) Purge(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM import_uploads WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purging uploads: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging uploads: %w", err)
	}

	return int(n), nil
}
