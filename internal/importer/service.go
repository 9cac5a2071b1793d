// Package importer turns ledger exports into ledger records: header
// discovery, column mapping, descriptor and remarks parsing, deduplication
// and chunked persistence, tracked as jobs.
package importer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=importer

// ErrUnreadable means the upload could not be read as a ledger export.
var ErrUnreadable = errors.New("unreadable ledger file")

// Catalog is the reference data the importer reads and extends.
type Catalog interface {
	Lookup(ctx context.Context) (*catalog.Lookup, error)
	FindOrCreateTruckType(ctx context.Context, name string) (*catalog.TruckType, error)
	SaveTruck(ctx context.Context, t *catalog.Truck) (bool, error)
}

// Dispatcher hands a submitted job to whatever runs it.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// Options are chosen by the user at submission time.
type Options struct {
	// ExcludeIndices are row indices, as reported by Preview, to leave out.
	ExcludeIndices []int `json:"exclude_indices,omitempty"`
}

type Job struct {
	ID       uuid.UUID `json:"id"`
	FileName string    `json:"file_name"`
	Data     []byte    `json:"-"`
	Options  Options   `json:"options"`
}

type Settings struct {
	BatchSize        int
	ProgressTTL      time.Duration
	ProgressInterval int
	ErrorLimit       int
	HeaderSkipRows   int
}

func DefaultSettings() Settings {
	return Settings{
		BatchSize:        100,
		ProgressTTL:      time.Hour,
		ProgressInterval: 10,
		ErrorLimit:       50,
		HeaderSkipRows:   7,
	}
}

type Service struct {
	catalog    Catalog
	records    ledger.Repository
	progress   progress.Store
	dispatcher Dispatcher
	settings   Settings
}

func NewService(cat Catalog, records ledger.Repository, prog progress.Store, settings Settings) *Service {
	defaults := DefaultSettings()
	if settings.BatchSize <= 0 {
		settings.BatchSize = defaults.BatchSize
	}

	if settings.ProgressInterval <= 0 {
		settings.ProgressInterval = defaults.ProgressInterval
	}

	return &Service{
		catalog:  cat,
		records:  records,
		progress: prog,
		settings: settings,
	}
}

// SetDispatcher wires the job runner. It is separate from NewService because
// in-process dispatchers need the service itself.
func (s *Service) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

// Status returns the last published status of a job.
func (s *Service) Status(ctx context.Context, jobID uuid.UUID) (progress.Status, error) {
	return s.progress.Get(ctx, jobID)
}
