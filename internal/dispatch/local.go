package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
)

var _ importer.Dispatcher = (*Local)(nil)

// Local runs jobs in the current process. At most workers jobs run at once;
// the rest wait their turn.
type Local struct {
	ctx    context.Context
	runner Runner
	sem    chan struct{}
	wg     sync.WaitGroup
}

// NewLocal runs jobs under ctx rather than the submitting request's context,
// so a job outlives the request that queued it.
func NewLocal(ctx context.Context, runner Runner, workers int) *Local {
	return &Local{
		ctx:    ctx,
		runner: runner,
		sem:    make(chan struct{}, max(workers, 1)),
	}
}

func (l *Local) Dispatch(_ context.Context, job importer.Job) error {
	l.wg.Add(1)

	go func() {
		defer l.wg.Done()

		select {
		case l.sem <- struct{}{}:
		case <-l.ctx.Done():
			l.runner.Fail(context.WithoutCancel(l.ctx), job.ID, fmt.Errorf("shutting down before the job started: %w", l.ctx.Err()))
			return
		}
		defer func() { <-l.sem }()

		// Run publishes its own failure status.
		_, _ = l.runner.Run(l.ctx, job)
	}()

	return nil
}

// Wait blocks until every dispatched job has finished.
func (l *Local) Wait() {
	l.wg.Wait()
}
