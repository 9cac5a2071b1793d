// Package janitor periodically removes expired import state: job progress
// past its TTL and staged uploads whose job never ran.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// runTimeout bounds one sweep over all tasks.
const runTimeout = time.Minute

// PurgeFunc deletes whatever has expired at now and reports how many rows went.
type PurgeFunc func(ctx context.Context, now time.Time) (int, error)

type Task struct {
	Name  string
	Purge PurgeFunc
}

// OlderThan adapts a purge that takes a cutoff so it keeps the last ttl.
func OlderThan(ttl time.Duration, purge func(ctx context.Context, before time.Time) (int, error)) PurgeFunc {
	return func(ctx context.Context, now time.Time) (int, error) {
		return purge(ctx, now.Add(-ttl))
	}
}

type Janitor struct {
	cron  *cron.Cron
	tasks []Task
	now   func() time.Time
}

// New schedules tasks on a cron spec in the given time zone. An unknown zone
// falls back to UTC.
func New(schedule, timezone string, tasks ...Task) (*Janitor, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Warn("unknown janitor time zone, using UTC", "timezone", timezone, "error", err)
		loc = time.UTC
	}

	j := &Janitor{
		cron:  cron.New(cron.WithLocation(loc)),
		tasks: tasks,
		now:   time.Now,
	}

	if _, err := j.cron.AddFunc(schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("scheduling janitor %q: %w", schedule, err)
	}

	return j, nil
}

func (j *Janitor) Start() {
	j.cron.Start()
	slog.Info("janitor started", "tasks", len(j.tasks))
}

// Stop halts scheduling and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce runs every task now. A failing task does not stop the others.
func (j *Janitor) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	now := j.now()

	for _, t := range j.tasks {
		n, err := t.Purge(ctx, now)
		if err != nil {
			slog.Error("failed to purge", "task", t.Name, "error", err)
			continue
		}

		if n > 0 {
			slog.Info("purged expired rows", "task", t.Name, "count", n)
		}
	}
}
