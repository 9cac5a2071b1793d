// Package dispatch hands submitted import jobs to whatever runs them: a
// goroutine in the API process, or a worker reading a Kafka topic.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
)

//go:generate mockgen -source=dispatch.go -destination=dispatch_mock.go -package=dispatch

// Runner executes one import job to completion. Fail records a terminal
// status for a job that will never reach Run.
type Runner interface {
	Run(ctx context.Context, job importer.Job) (*importer.Result, error)
	Fail(ctx context.Context, jobID uuid.UUID, reason error)
}

// Uploads stages job payloads between the process that accepts an upload and
// the one that imports it.
type Uploads interface {
	Stage(ctx context.Context, job importer.Job) error
	Load(ctx context.Context, id uuid.UUID) (importer.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, before time.Time) (int, error)
}
