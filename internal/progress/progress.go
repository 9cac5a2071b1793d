// Package progress tracks import jobs in a key/value store whose entries
// expire after a bounded time.
package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type State string

const (
	StatePending    State = "PENDING"
	StateProcessing State = "PROCESSING"
	StateCompleted  State = "COMPLETED"
	StateFailed     State = "FAILED"
)

// Done reports whether the job reached a terminal state.
func (s State) Done() bool {
	return s == StateCompleted || s == StateFailed
}

// ParsingStats counts rows that ended up with each extracted attribute.
type ParsingStats struct {
	DriversExtracted int `json:"drivers_extracted"`
	RoutesExtracted  int `json:"routes_extracted"`
	LoadsExtracted   int `json:"loads_extracted"`
}

type Status struct {
	JobID          uuid.UUID     `json:"job_id"`
	State          State         `json:"status"`
	Progress       int           `json:"progress"`
	TotalRows      int           `json:"total_rows"`
	ProcessedRows  int           `json:"processed_rows"`
	CreatedCount   int           `json:"created_count"`
	DuplicateCount int           `json:"duplicate_count"`
	ErrorCount     int           `json:"error_count"`
	Errors         []string      `json:"errors"`
	Message        string        `json:"message"`
	ParsingStats   *ParsingStats `json:"parsing_stats,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

//go:generate mockgen -source=progress.go -destination=store_mock.go -package=progress

type Store interface {
	Set(ctx context.Context, jobID uuid.UUID, status Status, ttl time.Duration) error
	Get(ctx context.Context, jobID uuid.UUID) (Status, error)
	// Purge drops entries that expired before now and returns how many.
	Purge(ctx context.Context, now time.Time) (int, error)
}
