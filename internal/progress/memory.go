package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Store = (*Memory)(nil)

type entry struct {
	status    Status
	expiresAt time.Time
}

// Memory keeps job status in process. It serves a single API process that
// also runs the jobs.
type Memory struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[uuid.UUID]entry),
		now:     time.Now,
	}
}

func (m *Memory) Set(_ context.Context, jobID uuid.UUID, status Status, ttl time.Duration) error {
	status.JobID = jobID
	status.UpdatedAt = m.now().UTC()
	status.Errors = append([]string(nil), status.Errors...)

	m.mu.Lock()
	m.entries[jobID] = entry{status: status, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()

	return nil
}

func (m *Memory) Get(_ context.Context, jobID uuid.UUID) (Status, error) {
	m.mu.RLock()
	e, ok := m.entries[jobID]
	m.mu.RUnlock()

	if !ok || !m.now().Before(e.expiresAt) {
		return Status{}, ErrNotFound
	}

	return e.status, nil
}

func (m *Memory) Purge(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0

	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
			n++
		}
	}

	return n, nil
}
